package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	Production         bool          `env:"PRODUCTION" envDefault:"false"`
	Port               string        `env:"PORT" envDefault:"8080"`
	PostgresURL        string        `env:"POSTGRES_URL,required"`
	RedisURL           string        `env:"REDIS_URL" envDefault:"redis:6379"`
	JwtTTL             time.Duration `env:"TOKEN_TTL" envDefault:"20m"`
	Secret             string        `env:"SECRET,required"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SessionTokenLength int           `env:"SESSION_TOKEN_LENGTH" envDefault:"32"`
	ClientSecretPath   string        `env:"CLIENT_SECRET_PATH" envDefault:"secrets/client_secret.json"`
	RedirectURL        string        `env:"REDIRECT_URL" envDefault:""`
	ClientType         string        `env:"CLIENT_TYPE" envDefault:"web"`
	DefaultTimezone    string        `env:"DEFAULT_TIMEZONE" envDefault:"UTC"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	conf := &Config{}
	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return conf, nil
}
