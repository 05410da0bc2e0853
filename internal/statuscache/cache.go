// internal/statuscache/cache.go
package statuscache

import (
	"context"
	"fmt"
	"log"
	"sync"

	"farmwatch/internal/status"
	"farmwatch/internal/store"
)

// Cache owns the committed snapshot per tracked server and is its sole
// mutator. Commits are write-through: the durable form is saved on
// every commit, so teardown needs no flush.
type Cache struct {
	mu    sync.RWMutex
	store store.Store
	byID  map[string]status.ServerSnapshot
}

// New creates an empty cache backed by st.
func New(st store.Store) *Cache {
	return &Cache{
		store: st,
		byID:  make(map[string]status.ServerSnapshot),
	}
}

// Get returns the committed snapshot for id, or a fresh offline
// snapshot for a server that has never been observed.
func (c *Cache) Get(id string) status.ServerSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if snap, ok := c.byID[id]; ok {
		return snap
	}
	return status.NewOfflineSnapshot(id)
}

// Commit replaces the in-memory snapshot and writes its durable form.
// The in-memory replacement holds even when persistence fails, so one
// storage hiccup cannot make the next diff replay already-seen events.
func (c *Cache) Commit(ctx context.Context, snap status.ServerSnapshot) error {
	c.mu.Lock()
	c.byID[snap.Identifier] = snap
	c.mu.Unlock()

	blob, err := status.Encode(snap)
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, store.NamespaceServerStatus, snap.Identifier, blob); err != nil {
		return fmt.Errorf("statuscache: persist %s: %w", snap.Identifier, err)
	}
	return nil
}

// Restore loads the durable snapshot for id at startup. A missing or
// partial record falls back to a fresh offline snapshot; startup never
// fails on snapshot state.
func (c *Cache) Restore(ctx context.Context, id string) status.ServerSnapshot {
	snap := status.NewOfflineSnapshot(id)

	blob, ok, err := c.store.Load(ctx, store.NamespaceServerStatus, id)
	if err != nil {
		log.Printf("statuscache: load %s failed, starting fresh: %v", id, err)
	} else if ok {
		decoded, err := status.Decode(id, blob)
		if err != nil {
			log.Printf("statuscache: decode %s failed, starting fresh: %v", id, err)
		} else {
			snap = decoded
		}
	}

	c.mu.Lock()
	c.byID[id] = snap
	c.mu.Unlock()
	return snap
}

// Forget drops a server's snapshot and its durable form, used when the
// server is removed from the registry.
func (c *Cache) Forget(ctx context.Context, id string) error {
	c.mu.Lock()
	delete(c.byID, id)
	c.mu.Unlock()

	if err := c.store.Delete(ctx, store.NamespaceServerStatus, id); err != nil {
		return fmt.Errorf("statuscache: forget %s: %w", id, err)
	}
	return nil
}
