// Package warehouse provides schema lookups against the data warehouse
// backing generated views.
package warehouse

import (
	"errors"
	"time"
)

// Static errors for configuration validation
var (
	ErrURLRequired = errors.New("URL is required")
)

// Config contains warehouse connection settings
type Config struct {
	URL            string        `yaml:"url" validate:"required,url"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	QueryTimeout   time.Duration `yaml:"queryTimeout"`
	KeepAlive      time.Duration `yaml:"keepAlive"`
	Debug          bool          `yaml:"debug"`
	SchemaCacheTTL time.Duration `yaml:"schemaCacheTTL"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrURLRequired
	}

	return nil
}

// SetDefaults sets default values for the configuration
func (c *Config) SetDefaults() {
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 30 * time.Second
	}

	if c.KeepAlive == 0 {
		c.KeepAlive = 30 * time.Second
	}

	if c.SchemaCacheTTL == 0 {
		c.SchemaCacheTTL = time.Hour
	}
}
