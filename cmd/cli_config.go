package cmd

import (
	"errors"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/redis"
	"github.com/hwine/lookml-generator/pkg/views"
	"github.com/hwine/lookml-generator/pkg/warehouse"
)

var (
	// ErrRegistryDirRequired is returned when no registry directory is configured
	ErrRegistryDirRequired = errors.New("registry directory is required")
)

// CLIConfig represents minimal configuration for one-shot CLI commands
type CLIConfig struct {
	// Logging level
	Logging string `yaml:"logging" default:"error" validate:"oneof=panic fatal warn info debug trace"`

	// NamespacesFile is the path of the namespaces configuration file
	NamespacesFile string `yaml:"namespacesFile" default:"namespaces.yaml"`

	// Registry locates the metrics configuration registry
	Registry metricshub.Config `yaml:"registry"`

	// Generator controls output location and parallelism
	Generator generator.Config `yaml:"generator"`

	// Warehouse is optional; without it only schema-free views render
	Warehouse warehouse.Config `yaml:"warehouse,omitempty"`

	// Redis is optional and only enables the warehouse schema cache
	Redis *redis.Config `yaml:"redis,omitempty"`
}

// Validate validates the CLI configuration
func (c *CLIConfig) Validate() error {
	if c.Registry.Dir == "" {
		return ErrRegistryDirRequired
	}

	return nil
}

// LoadCLIConfig loads CLI configuration from a YAML file
func LoadCLIConfig(path string) (*CLIConfig, error) {
	if path == "" {
		path = "cli.yaml"
	}

	config := &CLIConfig{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	// Try to read the file, but allow it to not exist
	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use defaults and flags
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}

// newCLIFactory wires the registry, the optional warehouse client and the
// optional schema cache for one-shot commands. The returned cleanup closes
// whatever connections were opened.
func newCLIFactory(cfg *CLIConfig) (metricshub.Registry, *views.Factory, func(), error) {
	registry, err := metricshub.NewFileRegistry(logger, cfg.Registry.Dir)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {}

	var warehouseClient warehouse.Client

	if cfg.Warehouse.URL != "" {
		warehouseClient, err = warehouse.NewClient(logger, &cfg.Warehouse)
		if err != nil {
			return nil, nil, nil, err
		}

		if cfg.Redis != nil && cfg.Redis.URL != "" {
			redisClient, redisErr := redis.New(cfg.Redis)
			if redisErr != nil {
				return nil, nil, nil, redisErr
			}

			// NewClient applied the warehouse defaults, so the TTL is set here
			warehouseClient = warehouse.NewCachingClient(logger, warehouseClient, redisClient, cfg.Redis.PrefixKey("schema"), cfg.Warehouse.SchemaCacheTTL)
			cleanup = func() {
				if err := redisClient.Close(); err != nil {
					logger.WithError(err).Debug("Failed to close redis client")
				}
			}
		}
	}

	return registry, views.NewFactory(logger, registry, warehouseClient), cleanup, nil
}
