package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "DB_PATH", "DB_DRIVER", "REDIS_ADDR", "REDIS_PASSWORD",
		"CACHE_TTL", "GRPC_PORT", "GRPC_REFLECTION_ENABLED", "GRPC_LOGGING_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg := LoadFromEnv()

		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "./data/cocina.db", cfg.DBPath)
		assert.Equal(t, "sqlite3", cfg.DBDriver)
		assert.Equal(t, 50051, cfg.GRPCPort)
		assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
		assert.False(t, cfg.GRPCReflectionEnabled)
		assert.True(t, cfg.GRPCLoggingEnabled)
		assert.False(t, cfg.CacheEnabled())
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_PATH", "/var/lib/cocina/cocina.db")
		t.Setenv("REDIS_ADDR", "redis:6379")
		t.Setenv("CACHE_TTL", "90s")
		t.Setenv("GRPC_PORT", "6000")
		t.Setenv("GRPC_REFLECTION_ENABLED", "true")
		t.Setenv("GRPC_LOGGING_ENABLED", "false")

		cfg := LoadFromEnv()

		assert.Equal(t, "production", cfg.AppEnv)
		assert.Equal(t, "/var/lib/cocina/cocina.db", cfg.DBPath)
		assert.True(t, cfg.CacheEnabled())
		assert.Equal(t, 90*time.Second, cfg.CacheTTL)
		assert.Equal(t, 6000, cfg.GRPCPort)
		assert.True(t, cfg.GRPCReflectionEnabled)
		assert.False(t, cfg.GRPCLoggingEnabled)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GRPC_PORT", "abc")
		t.Setenv("CACHE_TTL", "ten minutes")
		t.Setenv("GRPC_LOGGING_ENABLED", "maybe")

		cfg := LoadFromEnv()

		assert.Equal(t, 50051, cfg.GRPCPort)
		assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
		assert.True(t, cfg.GRPCLoggingEnabled)
	})

	t.Run("non-positive ttl falls back", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CACHE_TTL", "-5m")

		assert.Equal(t, 10*time.Minute, LoadFromEnv().CacheTTL)
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{AppEnv: "production"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = NewLogger(&Config{AppEnv: "development"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
