// internal/config/env.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Env carries the secrets that never belong in the YAML file.
type Env struct {
	// PostgresDSN is required when storage.driver is "postgres".
	PostgresDSN string `env:"FARMWATCH_POSTGRES_DSN"`

	// AdminToken guards the mutating admin endpoints. Empty disables
	// the check.
	AdminToken string `env:"FARMWATCH_ADMIN_TOKEN"`
}

// LoadEnv reads the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return e, nil
}
