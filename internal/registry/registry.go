// internal/registry/registry.go
package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"farmwatch/internal/store"
)

var (
	// ErrExists is returned when adding a server that is already tracked.
	ErrExists = errors.New("registry: server already tracked")

	// ErrNotFound is returned for operations on an untracked server.
	ErrNotFound = errors.New("registry: server not tracked")
)

// Registry owns the set of tracked servers. Every mutation is persisted
// write-through before it becomes visible. Reads during a poll cycle
// see admin changes immediately; iteration follows registration order.
type Registry struct {
	mu    sync.RWMutex
	store store.Store
	order []string
	byID  map[string]ServerConfig
}

// New creates an empty registry backed by st.
func New(st store.Store) *Registry {
	return &Registry{
		store: st,
		byID:  make(map[string]ServerConfig),
	}
}

// Restore loads all persisted server configs. Individual malformed
// records are logged and skipped; registration order is rebuilt from
// the AddedAt timestamps.
func (r *Registry) Restore(ctx context.Context) error {
	blobs, err := r.store.List(ctx, store.NamespaceServers)
	if err != nil {
		return fmt.Errorf("registry: restore: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = r.order[:0]
	r.byID = make(map[string]ServerConfig, len(blobs))

	for key, blob := range blobs {
		cfg, err := decodeConfig(blob)
		if err != nil {
			log.Printf("registry: skipping persisted record %q: %v", key, err)
			continue
		}
		id := cfg.Identifier()
		r.byID[id] = cfg
		r.order = append(r.order, id)
	}

	sort.Slice(r.order, func(i, j int) bool {
		a, b := r.byID[r.order[i]], r.byID[r.order[j]]
		if !a.AddedAt.Equal(b.AddedAt) {
			return a.AddedAt.Before(b.AddedAt)
		}
		return r.order[i] < r.order[j]
	})

	return nil
}

// Add registers a new server and persists it.
func (r *Registry) Add(ctx context.Context, cfg ServerConfig) error {
	if cfg.IP == "" || cfg.Port == "" {
		return fmt.Errorf("registry: address fields required")
	}
	if cfg.AddedAt.IsZero() {
		cfg.AddedAt = time.Now()
	}
	id := cfg.Identifier()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; ok {
		return ErrExists
	}
	if err := r.persistLocked(ctx, cfg); err != nil {
		return err
	}

	r.byID[id] = cfg
	r.order = append(r.order, id)
	return nil
}

// Remove drops a server and deletes its persisted config.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	if err := r.store.Delete(ctx, store.NamespaceServers, id); err != nil {
		return fmt.Errorf("registry: remove %s: %w", id, err)
	}

	delete(r.byID, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Update applies mutate to the tracked config and persists the result.
// Address fields are not updatable; mutate sees a copy and the stored
// value changes only if persistence succeeds.
func (r *Registry) Update(ctx context.Context, id string, mutate func(*ServerConfig)) (ServerConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.byID[id]
	if !ok {
		return ServerConfig{}, ErrNotFound
	}

	next := cfg
	mutate(&next)
	next.IP, next.Port, next.AddedAt = cfg.IP, cfg.Port, cfg.AddedAt

	if err := r.persistLocked(ctx, next); err != nil {
		return ServerConfig{}, err
	}
	r.byID[id] = next
	return next, nil
}

// Get returns the current config for id.
func (r *Registry) Get(id string) (ServerConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.byID[id]
	return cfg, ok
}

// Identifiers returns the tracked identifiers in registration order.
func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len returns the number of tracked servers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

func (r *Registry) persistLocked(ctx context.Context, cfg ServerConfig) error {
	blob, err := encodeConfig(cfg)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, store.NamespaceServers, cfg.Identifier(), blob); err != nil {
		return fmt.Errorf("registry: persist %s: %w", cfg.Identifier(), err)
	}
	return nil
}
