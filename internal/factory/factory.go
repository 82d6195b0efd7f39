package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/btcguesser/internal/config"
	"github.com/mcoot/btcguesser/internal/dependencies/clock"
	"github.com/mcoot/btcguesser/internal/oracle"
	"github.com/mcoot/btcguesser/internal/services/guess"
	"github.com/mcoot/btcguesser/internal/storage"
	"github.com/mcoot/btcguesser/internal/storage/memory"
	pgstorage "github.com/mcoot/btcguesser/internal/storage/postgres"
	redisstorage "github.com/mcoot/btcguesser/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageTypeMemory
	StorageTypeRedis    = config.StorageTypeRedis
	StorageTypePostgres = config.StorageTypePostgres
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Oracle oracle.Oracle

	// Services
	GuessController *guess.Controller

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// Oracle overrides the Coinbase price oracle (optional)
	Oracle oracle.Oracle
	// CoinbaseConfig configures the default oracle; zero fields take defaults
	CoinbaseConfig oracle.CoinbaseConfig
	// GuessConfig holds the lifecycle tunables; zero fields take defaults
	GuessConfig guess.Config
}

// ConfigFromEnv translates loaded server configuration into factory configuration
func ConfigFromEnv(cfg *config.Config, logger *slog.Logger) Config {
	fc := Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		CoinbaseConfig: oracle.CoinbaseConfig{
			URL:     cfg.OracleURL,
			Timeout: cfg.OracleTimeout,
		},
		GuessConfig: guess.Config{
			ResolutionWindow: cfg.ResolutionWindow,
			OracleTimeout:    cfg.OracleTimeout,
		},
	}
	switch cfg.StorageType {
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	case StorageTypePostgres:
		pgCfg := pgstorage.DefaultConfig()
		pgCfg.URL = cfg.DatabaseURL
		fc.PostgresConfig = &pgCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := pgstorage.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
		closers = append(closers, pgStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'postgres'", storageType)
	}

	// Concurrent pollers share one in-flight price request
	priceOracle := cfg.Oracle
	if priceOracle == nil {
		priceOracle = oracle.NewShared(oracle.NewCoinbase(cfg.CoinbaseConfig))
	}

	logger.Info("application configured",
		slog.String("storage", storageType),
		slog.Duration("resolution_window", effectiveWindow(cfg.GuessConfig)),
	)

	app := newWithDependencies(store, clock.New(), priceOracle, cfg.GuessConfig, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, priceOracle oracle.Oracle, guessCfg guess.Config, logger *slog.Logger) *App {
	return &App{
		Storage:         store,
		Clock:           clk,
		Oracle:          priceOracle,
		GuessController: guess.NewController(store, priceOracle, clk, guessCfg, logger),
	}
}

// Close releases any backend connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func effectiveWindow(cfg guess.Config) time.Duration {
	if cfg.ResolutionWindow > 0 {
		return cfg.ResolutionWindow
	}
	return guess.DefaultConfig().ResolutionWindow
}
