// Package engine wires all lookml-generator services together for serve mode
package engine

import (
	"github.com/hwine/lookml-generator/pkg/api"
	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/redis"
	"github.com/hwine/lookml-generator/pkg/scheduler"
	"github.com/hwine/lookml-generator/pkg/server"
	"github.com/hwine/lookml-generator/pkg/warehouse"
	"github.com/hwine/lookml-generator/pkg/worker"
)

// Config represents the complete serve mode configuration
type Config struct {
	// Logging is the logging level to use
	Logging string `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`

	// NamespacesFile is the path of the namespaces configuration file
	NamespacesFile string `yaml:"namespacesFile" default:"namespaces.yaml"`

	// Server holds the process listener addresses
	Server server.Config `yaml:"server"`

	// Redis is the redis connection configuration
	Redis redis.Config `yaml:"redis"`

	// Registry locates the metrics configuration registry
	Registry metricshub.Config `yaml:"registry"`

	// Warehouse is the schema source configuration
	Warehouse warehouse.Config `yaml:"warehouse"`

	// Generator controls output location and parallelism
	Generator generator.Config `yaml:"generator"`

	// Scheduler controls periodic generation runs
	Scheduler scheduler.Config `yaml:"scheduler"`

	// Worker controls generation task consumption
	Worker worker.Config `yaml:"worker"`

	// API is the REST API configuration
	API api.Config `yaml:"api"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}

	if err := c.Redis.Validate(); err != nil {
		return err
	}

	if err := c.Registry.Validate(); err != nil {
		return err
	}

	if err := c.Warehouse.Validate(); err != nil {
		return err
	}

	if err := c.Generator.Validate(); err != nil {
		return err
	}

	if err := c.Scheduler.Validate(); err != nil {
		return err
	}

	if err := c.Worker.Validate(); err != nil {
		return err
	}

	return c.API.Validate()
}
