// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	p := &cfg.Farmwatch.Poll
	if p.IntervalSeconds == 0 {
		p.IntervalSeconds = 60
	}
	if p.PacingSeconds == 0 {
		p.PacingSeconds = 2
	}
	if p.FetchTimeoutSeconds == 0 {
		p.FetchTimeoutSeconds = 3
	}
	if p.RenameCooldownSeconds == 0 {
		p.RenameCooldownSeconds = 305
	}
	if p.DegradedAfterCycles == 0 {
		p.DegradedAfterCycles = 5
	}

	if cfg.Farmwatch.HTTP.Listen == "" {
		cfg.Farmwatch.HTTP.Listen = ":8080"
	}
	if cfg.Farmwatch.Storage.Driver == "" {
		cfg.Farmwatch.Storage.Driver = "memory"
	}
}
