package internal

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "SBH"

// Config holds settings read from SBH_* environment variables.
type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	SearchDepth int    `envconfig:"SEARCH_DEPTH" default:"8"`
	FollowLinks bool   `envconfig:"FOLLOW_LINKS" default:"true"`
	Language    string `envconfig:"LANGUAGE"`
}

// LoadConfig loads configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if _, ok := ParseLogLevel(cfg.LogLevel); !ok {
		return nil, fmt.Errorf("failed to load config: unknown log level %q", cfg.LogLevel)
	}
	if cfg.SearchDepth < 0 {
		return nil, fmt.Errorf("failed to load config: negative search depth %d", cfg.SearchDepth)
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		SearchDepth: 8,
		FollowLinks: true,
	}
}

// Apply sets the package log level from the configuration.
func (c *Config) Apply() {
	if level, ok := ParseLogLevel(c.LogLevel); ok {
		SetLogLevel(level)
	}
}
