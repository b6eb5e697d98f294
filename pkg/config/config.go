// Package config loads the MCP server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings.
type Config struct {
	Debug        bool          `env:"DIVIDER_DEBUG"`
	LogFile      string        `env:"DIVIDER_LOG_FILE" envDefault:"mcp-go-divider.log"`
	Program      string        `env:"DIVIDER_PROGRAM" envDefault:"./cmd/divide"`
	BuildTimeout time.Duration `env:"DIVIDER_BUILD_TIMEOUT" envDefault:"2m"`
	DebugTimeout time.Duration `env:"DIVIDER_DEBUG_TIMEOUT" envDefault:"10s"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BuildTimeout <= 0 {
		return Config{}, fmt.Errorf("DIVIDER_BUILD_TIMEOUT must be positive, got %s", cfg.BuildTimeout)
	}
	if cfg.DebugTimeout <= 0 {
		return Config{}, fmt.Errorf("DIVIDER_DEBUG_TIMEOUT must be positive, got %s", cfg.DebugTimeout)
	}
	return cfg, nil
}
