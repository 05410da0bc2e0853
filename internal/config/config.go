// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Farmwatch FarmwatchConfig `yaml:"farmwatch"`
}

type FarmwatchConfig struct {
	Poll    PollConfig    `yaml:"poll"`
	HTTP    HTTPConfig    `yaml:"http"`
	Discord DiscordConfig `yaml:"discord"`
	Storage StorageConfig `yaml:"storage"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalSeconds       int `yaml:"interval_seconds"`
	PacingSeconds         int `yaml:"pacing_seconds"`
	FetchTimeoutSeconds   int `yaml:"fetch_timeout_seconds"`
	RenameCooldownSeconds int `yaml:"rename_cooldown_seconds"`
	DegradedAfterCycles   int `yaml:"degraded_after_cycles"`
}

// ---- HTTP ----

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// ---- DISCORD ----

type DiscordConfig struct {
	Username string `yaml:"username"`
}

// ---- STORAGE ----

type StorageConfig struct {
	// Driver selects the backing store: "memory" or "postgres".
	Driver string `yaml:"driver"`
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
