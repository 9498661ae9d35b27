// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config is the server's environment configuration
type Config struct {
	Host     string `env:"DICEGAME_HOST"      envDefault:""`
	Port     int    `env:"DICEGAME_PORT"      envDefault:"8080"`
	LogLevel string `env:"DICEGAME_LOG_LEVEL" envDefault:"info"`

	Storage  string        `env:"DICEGAME_STORAGE"   envDefault:"memory"`
	RedisURL string        `env:"DICEGAME_REDIS_URL"`
	RoomTTL  time.Duration `env:"DICEGAME_ROOM_TTL"  envDefault:"24h"`

	// LobbyShowStarted includes started games in the default listing
	LobbyShowStarted bool `env:"DICEGAME_LOBBY_SHOW_STARTED" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks for combinations the server cannot run with
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("DICEGAME_REDIS_URL is required for redis storage")
		}
		if c.RoomTTL < 0 {
			return fmt.Errorf("invalid room ttl %s", c.RoomTTL)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel converts a level name into a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
