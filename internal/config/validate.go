// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	p := cfg.Farmwatch.Poll

	if p.IntervalSeconds < 0 {
		return fmt.Errorf("poll.interval_seconds must not be negative")
	}
	if p.PacingSeconds < 0 {
		return fmt.Errorf("poll.pacing_seconds must not be negative")
	}
	if p.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("poll.fetch_timeout_seconds must not be negative")
	}
	if p.RenameCooldownSeconds < 0 {
		return fmt.Errorf("poll.rename_cooldown_seconds must not be negative")
	}
	if p.DegradedAfterCycles < 0 {
		return fmt.Errorf("poll.degraded_after_cycles must not be negative")
	}

	// A fetch that can outlive the cycle interval would stack requests.
	if p.IntervalSeconds > 0 && p.FetchTimeoutSeconds > p.IntervalSeconds {
		return fmt.Errorf("poll.fetch_timeout_seconds must not exceed poll.interval_seconds")
	}

	switch cfg.Farmwatch.Storage.Driver {
	case "", "memory", "postgres":
	default:
		return fmt.Errorf("storage.driver must be \"memory\" or \"postgres\", got %q", cfg.Farmwatch.Storage.Driver)
	}

	return nil
}
