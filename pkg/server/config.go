// Package server runs the process-level HTTP listeners: Prometheus
// metrics, health checks, and optional pprof.
package server

import "errors"

// Define static errors
var (
	ErrMetricsAddrRequired = errors.New("metrics address is required")
)

// Config holds the listener addresses of the process
type Config struct {
	// MetricsAddr is the address to listen on for metrics.
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr is the address to listen on for healthcheck. Empty
	// disables the health check server.
	HealthCheckAddr string `yaml:"healthCheckAddr"`
	// PProfAddr is the address to listen on for pprof. Empty disables the
	// pprof server.
	PProfAddr string `yaml:"pprofAddr"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MetricsAddr == "" {
		return ErrMetricsAddrRequired
	}

	return nil
}
