package engine

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	r "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/api"
	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/observability"
	"github.com/hwine/lookml-generator/pkg/redis"
	"github.com/hwine/lookml-generator/pkg/scheduler"
	"github.com/hwine/lookml-generator/pkg/server"
	"github.com/hwine/lookml-generator/pkg/tasks"
	"github.com/hwine/lookml-generator/pkg/validation"
	"github.com/hwine/lookml-generator/pkg/views"
	"github.com/hwine/lookml-generator/pkg/warehouse"
	"github.com/hwine/lookml-generator/pkg/worker"
)

// Service composes every serve mode component and manages their lifecycle
type Service struct {
	config *Config
	log    logrus.FieldLogger

	redisClient *r.Client

	registry   metricshub.Registry
	namespaces generator.NamespacesConfig
	warehouse  warehouse.Client
	queue      *tasks.QueueManager

	server    server.Service
	worker    worker.Service
	scheduler scheduler.Service
	api       api.Service
}

// NewService builds the full serve mode service graph from configuration.
// The registry and the namespaces file are loaded here, so a broken
// configuration fails before anything starts.
func NewService(log logrus.FieldLogger, cfg *Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	redisOptions, err := redis.ParseOptions(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	redisClient := r.NewClient(redisOptions)

	registry, err := metricshub.NewFileRegistry(log, cfg.Registry.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics registry: %w", err)
	}

	observability.RecordRegistryNamespaces(float64(len(registry.Namespaces())))

	namespaces, err := generator.LoadNamespaces(cfg.NamespacesFile)
	if err != nil {
		return nil, err
	}

	warehouseClient, err := warehouse.NewClient(log, &cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse client: %w", err)
	}

	// NewClient applies the config defaults, so the TTL is always set here
	cachedWarehouse := warehouse.NewCachingClient(log, warehouseClient, redisClient, cfg.Redis.PrefixKey("schema"), cfg.Warehouse.SchemaCacheTTL)

	factory := views.NewFactory(log, registry, cachedWarehouse)

	gen, err := generator.NewService(log, &cfg.Generator, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator service: %w", err)
	}

	queue := tasks.NewQueueManager(redis.NewAsynqRedisOptions(redisOptions))

	workerService, err := worker.NewService(log, &cfg.Worker, gen, namespaces, redisOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker service: %w", err)
	}

	schedulerService, err := scheduler.NewService(log, &cfg.Scheduler, &cfg.Redis, registry, namespaces, queue)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler service: %w", err)
	}

	apiService := api.NewService(&cfg.API, namespaces, factory, validation.NewValidator(log, registry), queue, log)

	serverService, err := server.NewService(log, &cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to create server service: %w", err)
	}

	return &Service{
		config: cfg,
		log:    log,

		redisClient: redisClient,
		registry:    registry,
		namespaces:  namespaces,
		warehouse:   cachedWarehouse,
		queue:       queue,

		server:    serverService,
		worker:    workerService,
		scheduler: schedulerService,
		api:       apiService,
	}, nil
}

// Start brings up all components in dependency order
func (s *Service) Start(ctx context.Context) error {
	s.log.Info("Starting lookml-generator engine")

	// Listeners first so every component can record metrics
	if err := s.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := s.warehouse.Start(); err != nil {
		return fmt.Errorf("failed to start warehouse client: %w", err)
	}

	if err := s.worker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if err := s.api.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API service: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"namespaces": len(s.namespaces),
		"registry":   len(s.registry.Namespaces()),
	}).Info("Engine started")

	return nil
}

// Stop shuts everything down in reverse dependency order
func (s *Service) Stop() error {
	s.log.Info("Shutting down engine")

	stopService := func(name string, stopFunc func() error) {
		if stopFunc == nil {
			return
		}

		if err := stopFunc(); err != nil {
			s.log.WithError(err).Errorf("Failed to stop %s", name)
		}
	}

	// 1. Stop scheduler first (stop creating new tasks)
	if s.scheduler != nil {
		stopService("scheduler", s.scheduler.Stop)
	}

	// 2. Stop worker (finish in-flight tasks)
	if s.worker != nil {
		stopService("worker", s.worker.Stop)
	}

	// 3. Stop API
	if s.api != nil {
		stopService("API service", s.api.Stop)
	}

	// 4. Close queue connections (now safe, nothing enqueues or consumes)
	if s.queue != nil {
		stopService("queue manager", s.queue.Close)
	}

	if s.redisClient != nil {
		stopService("redis client", s.redisClient.Close)
	}

	if s.warehouse != nil {
		stopService("warehouse client", s.warehouse.Stop)
	}

	// Listeners go last so health checks stay accurate during the drain
	if s.server != nil {
		stopService("server", s.server.Stop)
	}

	return nil
}

// Run starts the engine and blocks until the context is canceled or a
// termination signal arrives, then shuts down.
func (s *Service) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return s.Stop()
}
