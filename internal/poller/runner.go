// internal/poller/runner.go
package poller

import (
	"context"
	"log"
	"time"
)

// Run polls immediately, then on every interval tick until ctx is
// cancelled. It returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	interval := p.cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	log.Printf("poller: starting, interval=%s servers=%d", interval, p.registry.Len())

	p.CycleOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("poller: stopping: %v", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			p.CycleOnce(ctx)
		}
	}
}
