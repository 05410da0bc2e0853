// internal/poller/poller.go

// Package poller drives the periodic poll cycle: fetch every tracked
// server's feed, diff against the cached snapshot, commit, and hand the
// resulting events to the notification sink. One bad server never
// blocks the rest of the cycle.
package poller

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"farmwatch/internal/metrics"
	"farmwatch/internal/notify"
	"farmwatch/internal/registry"
	"farmwatch/internal/status"
	"farmwatch/internal/statuscache"
)

// Fetcher retrieves one observation for a feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (status.Observation, error)
}

// Config holds the poll loop tunables.
type Config struct {
	// Interval between cycle starts.
	Interval time.Duration

	// Pacing is the minimum gap between two status display updates,
	// shared across all servers. Discord webhook edits tolerate roughly
	// one every two seconds.
	Pacing time.Duration

	// DegradedAfter is the transient-failure streak length at which a
	// server is flagged as degraded in the logs.
	DegradedAfter int
}

// Poller runs poll cycles over the registry.
type Poller struct {
	cfg      Config
	registry *registry.Registry
	cache    *statuscache.Cache
	fetch    Fetcher
	sink     notify.Sink
	throttle *RenameThrottle
	limiter  *rate.Limiter

	// refreshed tracks which servers have had their display refreshed
	// at least once since startup; the first cycle always refreshes so
	// stale pre-restart embeds do not linger.
	refreshed  map[string]bool
	transients map[string]int
}

// New wires a poller. throttle may be shared with the admin API so
// manual display creation counts against the same cooldown.
func New(cfg Config, reg *registry.Registry, cache *statuscache.Cache, fetch Fetcher, sink notify.Sink, throttle *RenameThrottle) *Poller {
	if cfg.Pacing <= 0 {
		cfg.Pacing = 2 * time.Second
	}
	return &Poller{
		cfg:        cfg,
		registry:   reg,
		cache:      cache,
		fetch:      fetch,
		sink:       sink,
		throttle:   throttle,
		limiter:    rate.NewLimiter(rate.Every(cfg.Pacing), 1),
		refreshed:  make(map[string]bool),
		transients: make(map[string]int),
	}
}

// CycleOnce runs exactly one poll cycle over the current registry
// contents. A panic while processing one server is contained to that
// server.
func (p *Poller) CycleOnce(ctx context.Context) {
	started := time.Now()
	cycleID := uuid.NewString()

	ids := p.registry.Identifiers()
	metrics.ServersTracked.Set(float64(len(ids)))

	for _, id := range ids {
		// Re-read per server so admin changes mid-cycle apply.
		cfg, ok := p.registry.Get(id)
		if !ok {
			continue
		}
		p.runServer(ctx, cycleID, cfg)
		if ctx.Err() != nil {
			return
		}
	}

	metrics.PollCycles.Inc()
	metrics.CycleDuration.Observe(time.Since(started).Seconds())
}

func (p *Poller) runServer(ctx context.Context, cycleID string, cfg registry.ServerConfig) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("poller: cycle=%s server=%s: recovered panic: %v", cycleID, cfg.Identifier(), r)
		}
	}()
	p.processServer(ctx, cycleID, cfg)
}

func (p *Poller) processServer(ctx context.Context, cycleID string, cfg registry.ServerConfig) {
	id := cfg.Identifier()

	obs, err := p.fetch.Fetch(ctx, cfg.FeedURL())
	metrics.FetchResults.WithLabelValues(id, obs.Kind.String()).Inc()

	if obs.Kind == status.ObservationTransient {
		p.transients[id]++
		metrics.ConsecutiveTransients.WithLabelValues(id).Set(float64(p.transients[id]))
		if p.cfg.DegradedAfter > 0 && p.transients[id] >= p.cfg.DegradedAfter {
			log.Printf("poller: cycle=%s server=%s: degraded, %d consecutive transient failures: %v",
				cycleID, id, p.transients[id], err)
		} else {
			log.Printf("poller: cycle=%s server=%s: transient fetch failure: %v", cycleID, id, err)
		}
		// Transient observations never perturb cached state.
		return
	}
	p.transients[id] = 0
	metrics.ConsecutiveTransients.WithLabelValues(id).Set(0)

	prev := p.cache.Get(id)
	next, events := status.Diff(prev, obs)
	for _, ev := range events {
		metrics.Events.WithLabelValues(ev.Kind.String()).Inc()
	}

	// Commit before dispatch: a crash between the two loses
	// notifications, never duplicates them.
	if err := p.cache.Commit(ctx, next); err != nil {
		log.Printf("poller: cycle=%s server=%s: %v", cycleID, id, err)
	}

	view := notify.NewServerView(next, cfg.ModsURL(), cfg.Color)
	p.dispatch(ctx, cycleID, cfg, events, view)
	p.refreshDisplay(ctx, cycleID, cfg, events, view)
}

func (p *Poller) dispatch(ctx context.Context, cycleID string, cfg registry.ServerConfig, events []status.Event, view notify.ServerView) {
	if len(events) == 0 || !cfg.HasMemberLog() {
		return
	}
	id := cfg.Identifier()

	for _, ev := range events {
		if err := p.sink.NotifyEvent(ctx, cfg.MemberLogWebhookURL, ev, view); err != nil {
			metrics.DispatchFailures.WithLabelValues(id).Inc()
			log.Printf("poller: cycle=%s server=%s: notify %s: %v", cycleID, id, ev.Kind, err)
		}
	}
}

// refreshDisplay updates the status embed when the server state changed
// in a way the display shows. Admin promotions alter no displayed line,
// so they alone never trigger a refresh.
func (p *Poller) refreshDisplay(ctx context.Context, cycleID string, cfg registry.ServerConfig, events []status.Event, view notify.ServerView) {
	if !cfg.HasStatusDisplay() {
		return
	}
	id := cfg.Identifier()

	if !p.shouldRefresh(id, events) {
		return
	}
	if !p.throttle.Allows(id) {
		return
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return
	}

	if err := p.sink.UpdateStatusDisplay(ctx, cfg.StatusWebhookURL, cfg.StatusMessageID, view); err != nil {
		metrics.DispatchFailures.WithLabelValues(id).Inc()
		log.Printf("poller: cycle=%s server=%s: status display: %v", cycleID, id, err)
		return
	}
	p.refreshed[id] = true
	p.throttle.Record(id)
}

func (p *Poller) shouldRefresh(id string, events []status.Event) bool {
	if !p.refreshed[id] {
		return true
	}
	for _, ev := range events {
		if ev.Kind != status.PlayerPromotedToAdmin {
			return true
		}
	}
	return false
}
