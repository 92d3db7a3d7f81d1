package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, "Hunter", cfg.PlayerName)
	assert.Equal(t, ":7677", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HF_DB_PATH", "/tmp/hf.db")
	t.Setenv("HF_PLAYER_NAME", "Jin-Woo")
	t.Setenv("HF_LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("HF_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/hf.db", cfg.DBPath)
	assert.Equal(t, "Jin-Woo", cfg.PlayerName)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoggerLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error", "bogus"} {
		cfg := &Config{LogLevel: lvl}
		require.NotNil(t, cfg.Logger())
	}
}
