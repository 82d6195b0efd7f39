package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, 60*time.Second, cfg.ResolutionWindow)
	assert.Equal(t, 5*time.Second, cfg.OracleTimeout)
	assert.Equal(t, "https://api.coinbase.com/v2/prices/BTC-USD/spot", cfg.OracleURL)
	assert.Equal(t, "USD", cfg.PriceCurrency)
	assert.Equal(t, "Coinbase", cfg.PriceSource)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RESOLUTION_WINDOW", "90s")
	t.Setenv("ORACLE_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, StorageTypeRedis, cfg.StorageType)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 90*time.Second, cfg.ResolutionWindow)
	assert.Equal(t, 2*time.Second, cfg.OracleTimeout)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("RESOLUTION_WINDOW", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:             8080,
			LogLevel:         "info",
			StorageType:      StorageTypeMemory,
			ResolutionWindow: time.Minute,
			OracleURL:        "http://oracle.test",
			OracleTimeout:    time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid memory", mutate: func(*Config) {}},
		{name: "unknown storage", mutate: func(c *Config) { c.StorageType = "etcd" }, wantErr: "unknown STORAGE_TYPE"},
		{name: "redis without url", mutate: func(c *Config) { c.StorageType = StorageTypeRedis }, wantErr: "REDIS_URL"},
		{name: "postgres without url", mutate: func(c *Config) { c.StorageType = StorageTypePostgres }, wantErr: "DATABASE_URL"},
		{
			name: "postgres with url",
			mutate: func(c *Config) {
				c.StorageType = StorageTypePostgres
				c.DatabaseURL = "postgres://localhost/btcguess"
			},
		},
		{name: "zero window", mutate: func(c *Config) { c.ResolutionWindow = 0 }, wantErr: "RESOLUTION_WINDOW"},
		{name: "negative timeout", mutate: func(c *Config) { c.OracleTimeout = -time.Second }, wantErr: "ORACLE_TIMEOUT"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
