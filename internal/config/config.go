// Package config loads server settings from the environment
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage types
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// Config is the full server configuration
type Config struct {
	Host     string `envconfig:"HOST" default:""`
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StorageType string `envconfig:"STORAGE_TYPE" default:"memory"`
	RedisURL    string `envconfig:"REDIS_URL"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	ResolutionWindow time.Duration `envconfig:"RESOLUTION_WINDOW" default:"60s"`

	OracleURL     string        `envconfig:"ORACLE_URL" default:"https://api.coinbase.com/v2/prices/BTC-USD/spot"`
	OracleTimeout time.Duration `envconfig:"ORACLE_TIMEOUT" default:"5s"`
	PriceCurrency string        `envconfig:"PRICE_CURRENCY" default:"USD"`
	PriceSource   string        `envconfig:"PRICE_SOURCE" default:"Coinbase"`

	CORSAllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"*"`
}

// Load reads a .env file if one exists, then maps the environment onto a Config
// and validates it
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	case StorageTypePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.ResolutionWindow <= 0 {
		errs = append(errs, errors.New("RESOLUTION_WINDOW must be positive"))
	}
	if c.OracleTimeout <= 0 {
		errs = append(errs, errors.New("ORACLE_TIMEOUT must be positive"))
	}
	if c.OracleURL == "" {
		errs = append(errs, errors.New("ORACLE_URL must not be empty"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel parses LogLevel into a slog.Level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
