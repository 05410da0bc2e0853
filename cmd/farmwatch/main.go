// cmd/farmwatch/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"farmwatch/internal/config"
	"farmwatch/internal/fetch"
	"farmwatch/internal/httpapi"
	"farmwatch/internal/notify"
	"farmwatch/internal/poller"
	"farmwatch/internal/registry"
	"farmwatch/internal/statuscache"
	"farmwatch/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: farmwatch <config.yaml>")
	}
	cfgPath := os.Args[1]

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	envCfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("environment load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Storage
	// --------------------

	var st store.Store
	switch cfg.Farmwatch.Storage.Driver {
	case "postgres":
		if envCfg.PostgresDSN == "" {
			log.Fatal("storage.driver is postgres but FARMWATCH_POSTGRES_DSN is not set")
		}
		pg, err := store.OpenPostgres(ctx, envCfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres open failed: %v", err)
		}
		defer pg.Close()
		st = pg
	default:
		st = store.NewMemory()
	}

	// --------------------
	// State restore
	// --------------------

	reg := registry.New(st)
	if err := reg.Restore(ctx); err != nil {
		log.Fatalf("registry restore failed: %v", err)
	}
	cache := statuscache.New(st)
	for _, id := range reg.Identifiers() {
		cache.Restore(ctx, id)
	}
	log.Printf("restored %d tracked servers", reg.Len())

	// --------------------
	// Poll pipeline
	// --------------------

	pollCfg := cfg.Farmwatch.Poll
	fetcher := fetch.New(time.Duration(pollCfg.FetchTimeoutSeconds) * time.Second)
	sink := notify.NewDiscord(cfg.Farmwatch.Discord.Username)
	throttle := poller.NewRenameThrottle(time.Duration(pollCfg.RenameCooldownSeconds) * time.Second)

	p := poller.New(poller.Config{
		Interval:      time.Duration(pollCfg.IntervalSeconds) * time.Second,
		Pacing:        time.Duration(pollCfg.PacingSeconds) * time.Second,
		DegradedAfter: pollCfg.DegradedAfterCycles,
	}, reg, cache, fetcher, sink, throttle)

	// --------------------
	// Admin API
	// --------------------

	app := httpapi.NewApp(httpapi.Deps{
		Registry:   reg,
		Cache:      cache,
		Sink:       sink,
		Throttle:   throttle,
		AdminToken: envCfg.AdminToken,
	})
	go func() {
		if err := app.Listen(cfg.Farmwatch.HTTP.Listen); err != nil {
			log.Printf("http listen: %v", err)
			stop()
		}
	}()

	// --------------------
	// Run until signalled
	// --------------------

	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("poller stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
