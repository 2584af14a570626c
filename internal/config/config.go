package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DBPath       string        `env:"IDLE_DB_PATH" envDefault:"idle.db"`
	StateKey     string        `env:"IDLE_STATE_KEY" envDefault:"game_state"`
	TickInterval time.Duration `env:"IDLE_TICK_INTERVAL" envDefault:"100ms"`
	SaveInterval time.Duration `env:"IDLE_SAVE_INTERVAL" envDefault:"5s"`
	LogLevel     string        `env:"IDLE_LOG_LEVEL" envDefault:"info"`
}

func Default() Config {
	return Config{
		DBPath:       "idle.db",
		StateKey:     "game_state",
		TickInterval: 100 * time.Millisecond,
		SaveInterval: 5 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game loop cannot run with.
func (c Config) Validate() error {
	if c.StateKey == "" {
		return fmt.Errorf("state key must not be empty")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.SaveInterval < 0 {
		return fmt.Errorf("save interval must not be negative, got %s", c.SaveInterval)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
