package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "POLL_TRIGGER", "COMMAND_ALIASES", "BACKFILL_LIMIT", "REGISTER_EMPTY_POLLS",
		"RETRACT_CONCURRENCY", "REDIS_ENABLED", "REDIS_ADDR", "DATABASE_URL", "STATUS_ENABLED", "STATUS_PORT", "STATUS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "poll:", cfg.Bot.Trigger)
	assert.Equal(t, []string{"!poll", "!sondaggio"}, cfg.Bot.CommandAliases)
	assert.Equal(t, 100, cfg.Bot.BackfillLimit)
	assert.True(t, cfg.Bot.RegisterEmptyPolls)
	assert.Equal(t, 4, cfg.Bot.RetractConcurrency)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "", cfg.Database.URL)
	assert.True(t, cfg.Status.Enabled)
	assert.Equal(t, "8080", cfg.Status.Port)
	assert.Equal(t, "", cfg.Status.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POLL_TRIGGER", "vote:")
	t.Setenv("COMMAND_ALIASES", " !vote , ,/poll")
	t.Setenv("BACKFILL_LIMIT", "25")
	t.Setenv("REGISTER_EMPTY_POLLS", "false")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DATABASE_URL", "postgres://localhost/reactord")
	t.Setenv("STATUS_ENABLED", "0")
	t.Setenv("STATUS_ALLOWED_ORIGINS", "*")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "vote:", cfg.Bot.Trigger)
	assert.Equal(t, []string{"!vote", "/poll"}, cfg.Bot.CommandAliases)
	assert.Equal(t, 25, cfg.Bot.BackfillLimit)
	assert.False(t, cfg.Bot.RegisterEmptyPolls)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "postgres://localhost/reactord", cfg.Database.URL)
	assert.False(t, cfg.Status.Enabled)
	assert.Equal(t, "*", cfg.Status.AllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("BACKFILL_LIMIT", "500")
	_, err = Load()
	assert.ErrorContains(t, err, "BACKFILL_LIMIT")

	t.Setenv("BACKFILL_LIMIT", "")
	t.Setenv("COMMAND_ALIASES", " , ")
	_, err = Load()
	assert.ErrorContains(t, err, "COMMAND_ALIASES")
}
