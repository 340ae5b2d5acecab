package metricshub

import "fmt"

// Config controls where the metrics configuration registry is read from.
type Config struct {
	// Dir is the registry root, containing one YAML file per namespace.
	Dir string `yaml:"dir" default:"metric-hub"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}

	return nil
}
