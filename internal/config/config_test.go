package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("SYNC_SCHEDULE", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "@every 60s", cfg.Sync.Schedule)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL())
	assert.Equal(t, 10*time.Second, cfg.Sync.WriteTimeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SYNC_QUEUE_SIZE", "8")
	t.Setenv("SYNC_RUN_ON_START", "false")
	t.Setenv("CACHE_TTL_SECONDS", "0")
	t.Setenv("SYNC_WORKERS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 8, cfg.Sync.QueueSize)
	assert.False(t, cfg.Sync.RunOnStart)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL())
	assert.Equal(t, 4, cfg.Sync.Workers)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")

	_, err := Load()
	assert.Error(t, err)
}
