// internal/poller/throttle.go
package poller

import (
	"sync"
	"time"
)

// DefaultRenameCooldown is the minimum gap between two status display
// refreshes of the same server. Discord rate-limits webhook message
// edits aggressively on a multi-minute window; staying above it keeps
// refreshes from silently queueing.
const DefaultRenameCooldown = 305 * time.Second

// RenameThrottle gates status display refreshes per server. It owns the
// last-refresh timestamps; snapshots stay pure observation data.
type RenameThrottle struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[string]time.Time
	now      func() time.Time
}

// NewRenameThrottle creates a throttle with the given cooldown.
// cooldown <= 0 falls back to the default.
func NewRenameThrottle(cooldown time.Duration) *RenameThrottle {
	if cooldown <= 0 {
		cooldown = DefaultRenameCooldown
	}
	return &RenameThrottle{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allows reports whether id may refresh now. A server with no recorded
// refresh is always allowed; otherwise the elapsed time must strictly
// exceed the cooldown.
func (t *RenameThrottle) Allows(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.last[id]
	if !ok {
		return true
	}
	return t.now().Sub(last) > t.cooldown
}

// Record marks a successful refresh for id.
func (t *RenameThrottle) Record(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last[id] = t.now()
}

// Forget drops the timestamp for a removed server.
func (t *RenameThrottle) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.last, id)
}
