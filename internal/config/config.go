package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment
// variables.
type Config struct {
	// DBPath overrides the default database location (~/.habitforge.db).
	DBPath string `env:"HF_DB_PATH"`

	// PlayerName seeds the player document on first run.
	PlayerName string `env:"HF_PLAYER_NAME" envDefault:"Hunter"`

	// ListenAddr is the companion server bind address.
	ListenAddr string `env:"HF_LISTEN_ADDR" envDefault:":7677"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"HF_LOG_LEVEL" envDefault:"info"`
}

// Load parses environment variables into a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Logger builds a structured logger at the configured level.
func (c *Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
