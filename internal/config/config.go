// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	Port    int    `env:"APP_PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// StorageDriver selects the persistence backend: memory, file,
	// redis or postgres.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	RedisURL      string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	DatabaseURL   string `env:"DATABASE_URL"`
	StorageDir    string `env:"STORAGE_DIR" envDefault:"./data"`
	StorageKey    string `env:"STORAGE_KEY"`

	MaxLinks               int `env:"MAX_LINKS" envDefault:"5"`
	DefaultValidityMinutes int `env:"DEFAULT_VALIDITY_MINUTES" envDefault:"30"`
	ShortCodeLength        int `env:"SHORT_CODE_LENGTH" envDefault:"6"`

	GeoIPEndpoint      string        `env:"GEO_IP_ENDPOINT" envDefault:"http://ip-api.com/json"`
	GeoReverseEndpoint string        `env:"GEO_REVERSE_ENDPOINT" envDefault:"https://nominatim.openstreetmap.org/reverse"`
	GeoLookupTimeout   time.Duration `env:"GEO_LOOKUP_TIMEOUT" envDefault:"5s"`

	// TelemetryURL enables error reporting when set.
	TelemetryURL string `env:"TELEMETRY_URL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads configuration from the environment, preloading .env when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "memory", "file", "redis", "postgres":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ShortCodeLength < 3 || c.ShortCodeLength > 10 {
		return fmt.Errorf("short code length %d out of range [3,10]", c.ShortCodeLength)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
