package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-provided configuration surface. The backend
// base URL is the only externally required value; everything else has a
// working default.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Base URL for every club API endpoint, including any path prefix.
	APIBaseURL string `env:"CLUB_API_BASE_URL,required"`

	// Identity service consumed for token issuance.
	IdentityURL string `env:"CLUB_IDENTITY_URL"`
	IdentityKey string `env:"CLUB_IDENTITY_KEY"`

	// Local sqlite state store.
	StatePath string `env:"CLUB_STATE_PATH" envDefault:"clubhouse.db"`

	// Operational listener for metrics and health.
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9190"`

	// Fixed chat poll cadence.
	ChatPollInterval time.Duration `env:"CHAT_POLL_INTERVAL" envDefault:"3s"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
