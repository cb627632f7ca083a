package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "STORAGE_BACKEND", "AUTO_MIGRATE", "JWT_SECRET",
		"JWT_EXPIRES_IN", "LIST_MODE", "LOG_LEVEL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, ListPaginated, cfg.ListMode)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.AutoMigrate)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("LIST_MODE", "dashboard")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.ServerPort)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, ListDashboard, cfg.ListMode)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.AutoMigrate)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Config{
		ServerPort:     ":0",
		StorageBackend: "sqlite",
		ListMode:       "weekly",
		JWTSecret:      "short",
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"invalid port", "unknown storage backend", "unknown list mode", "JWT_SECRET", "JWT_EXPIRES_IN"} {
		assert.Contains(t, err.Error(), want)
	}
}
