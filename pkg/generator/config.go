package generator

import "errors"

var (
	// ErrOutputDirRequired is returned when no output directory is configured
	ErrOutputDirRequired = errors.New("output directory is required")
	// ErrConcurrencyInvalid is returned when the concurrency limit is not positive
	ErrConcurrencyInvalid = errors.New("concurrency must be positive")
)

// Config contains generation output settings
type Config struct {
	// OutputDir is the root directory generated files are written under
	OutputDir string `yaml:"outputDir" default:"looker-hub"`

	// Concurrency limits how many namespaces generate in parallel
	Concurrency int `yaml:"concurrency" default:"4"`
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return ErrOutputDirRequired
	}

	if c.Concurrency < 1 {
		return ErrConcurrencyInvalid
	}

	return nil
}
