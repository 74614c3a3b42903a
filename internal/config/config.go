// Package config provides environment-driven configuration for compile passes.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Environment Variables:
//   - LOG_LEVEL, LOG_DEV
//   - STRICT_DIVISION: reject constants containing zero entries in division
//   - CACHE_STATS: log cache statistics at the end of a lowering pass
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all compiler configuration.
type Config struct {
	Logging LogConfig
	Compile CompileConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// CompileConfig holds lowering-pass configuration.
type CompileConfig struct {
	// StrictDivision rejects division by constants containing zero entries
	// instead of letting non-finite values propagate into lowered operators.
	StrictDivision bool `envconfig:"STRICT_DIVISION" default:"false"`
	// CacheStats enables cache hit/miss logging per lowering pass.
	CacheStats bool `envconfig:"CACHE_STATS" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Compile: CompileConfig{
			StrictDivision: false,
			CacheStats:     false,
		},
	}
}
