// Package redis provides Redis client configuration
package redis

import (
	"errors"
	"fmt"

	r "github.com/redis/go-redis/v9"
)

// Define static errors
var (
	// ErrURLRequired is returned when no Redis URL is configured
	ErrURLRequired = errors.New("redis URL is required")
)

// Config holds Redis client configuration
type Config struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix" default:"lookml-generator"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrURLRequired
	}

	if c.Prefix == "" {
		c.Prefix = "lookml-generator"
	}

	return nil
}

// PrefixKey adds the configured prefix to a Redis key
func (c *Config) PrefixKey(key string) string {
	if c.Prefix == "" {
		return key
	}

	return fmt.Sprintf("%s:%s", c.Prefix, key)
}

// ParseOptions parses the configured URL into go-redis client options.
func ParseOptions(cfg *Config) (*r.Options, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options, err := r.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return options, nil
}

// New creates a connected Redis client from the configuration.
func New(cfg *Config) (*r.Client, error) {
	options, err := ParseOptions(cfg)
	if err != nil {
		return nil, err
	}

	return r.NewClient(options), nil
}
