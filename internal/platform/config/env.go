// Package config loads server settings from the environment and game balance
// overrides from YAML.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds the host process settings.
type Server struct {
	Addr             string `env:"TYCOON_ADDR" envDefault:":8080"`
	DBPath           string `env:"TYCOON_DB_PATH" envDefault:"tycoon.db"`
	BalancePath      string `env:"TYCOON_BALANCE_PATH"`
	LogLevel         string `env:"TYCOON_LOG_LEVEL" envDefault:"info"`
	SessionCacheSize int    `env:"TYCOON_SESSION_CACHE_SIZE" envDefault:"256"`
	Profile          string `env:"TYCOON_PROFILE" envDefault:"default"`

	SessionIdleTTL time.Duration `env:"TYCOON_SESSION_IDLE_TTL" envDefault:"30m"`
	ReaperInterval time.Duration `env:"TYCOON_REAPER_INTERVAL" envDefault:"1m"`
	// ActionInterval is the minimum gap between two websocket actions of one
	// client. Zero disables the limit.
	ActionInterval time.Duration `env:"TYCOON_ACTION_INTERVAL" envDefault:"100ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer reads Server from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if cfg.SessionCacheSize <= 0 {
		return Server{}, fmt.Errorf("session cache size must be positive, got %d", cfg.SessionCacheSize)
	}
	if cfg.ReaperInterval <= 0 {
		return Server{}, fmt.Errorf("reaper interval must be positive, got %s", cfg.ReaperInterval)
	}
	if cfg.ActionInterval < 0 {
		return Server{}, fmt.Errorf("action interval must not be negative, got %s", cfg.ActionInterval)
	}
	return cfg, nil
}
