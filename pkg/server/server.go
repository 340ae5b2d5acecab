package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hwine/lookml-generator/pkg/observability"
)

// Service runs the metrics, health check and pprof listeners
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

type service struct {
	log    logrus.FieldLogger
	config *Config

	healthServer *http.Server
	pprofServer  *http.Server

	g *errgroup.Group
}

// NewService creates a new server service
func NewService(log logrus.FieldLogger, cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &service{
		log:    log.WithField("service", "server"),
		config: cfg,
	}, nil
}

// Start brings up the configured listeners
func (s *service) Start(_ context.Context) error {
	observability.StartMetricsServer(s.config.MetricsAddr)
	s.log.WithField("addr", s.config.MetricsAddr).Info("Started metrics server")

	s.g = &errgroup.Group{}

	if s.config.HealthCheckAddr != "" {
		s.healthServer = &http.Server{
			Addr:              s.config.HealthCheckAddr,
			Handler:           healthHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		s.g.Go(func() error {
			s.log.WithField("addr", s.config.HealthCheckAddr).Info("Starting health check server")

			if err := s.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("health check server failed: %w", err)
			}

			return nil
		})
	}

	if s.config.PProfAddr != "" {
		// No handler set, so the DefaultServeMux pprof routes are served
		s.pprofServer = &http.Server{
			Addr:              s.config.PProfAddr,
			ReadHeaderTimeout: 120 * time.Second,
		}

		s.g.Go(func() error {
			s.log.WithField("addr", s.config.PProfAddr).Info("Starting pprof server")

			if err := s.pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}

			return nil
		})
	}

	return nil
}

// Stop gracefully shuts down all listeners. Listener failures surface here
// rather than being lost in goroutine logs.
func (s *service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(ctx); err != nil {
			s.log.WithError(err).Error("Failed to shutdown health check server")
		}
	}

	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(ctx); err != nil {
			s.log.WithError(err).Error("Failed to shutdown pprof server")
		}
	}

	if err := observability.StopMetricsServer(ctx); err != nil {
		s.log.WithError(err).Error("Failed to stop metrics server")
	}

	if s.g == nil {
		return nil
	}

	return s.g.Wait()
}

func healthHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return mux
}

var _ Service = (*service)(nil)
