package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/observability"
	r "github.com/hwine/lookml-generator/pkg/redis"
	"github.com/hwine/lookml-generator/pkg/tasks"
)

const (
	// scheduleTaskID keys the last-run timestamp of the generation schedule
	scheduleTaskID = "generation:schedule"

	tickInterval = 1 * time.Second
)

// Service defines the public interface for the scheduler
type Service interface {
	// Start initializes and starts the scheduler service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler service
	Stop() error
}

// service enqueues generation runs for every configured namespace while
// holding leadership
type service struct {
	log logrus.FieldLogger
	cfg *Config

	done chan struct{}
	wg   sync.WaitGroup

	registry   metricshub.Registry
	namespaces generator.NamespacesConfig
	queue      *tasks.QueueManager

	elector  LeaderElector
	tracker  scheduleTracker
	interval time.Duration

	// nextRun caches the next due time so most ticks skip the Redis read.
	// Only the run loop goroutine touches it.
	nextRun time.Time
}

// NewService creates a new scheduler service
func NewService(log logrus.FieldLogger, cfg *Config, redisCfg *r.Config, registry metricshub.Registry, namespaces generator.NamespacesConfig, queue *tasks.QueueManager) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval, err := parseScheduleInterval(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	redisOpt, err := r.ParseOptions(redisCfg)
	if err != nil {
		return nil, err
	}

	trackerClient, err := r.New(redisCfg)
	if err != nil {
		return nil, err
	}

	return &service{
		log:        log.WithField("service", "scheduler"),
		cfg:        cfg,
		done:       make(chan struct{}),
		registry:   registry,
		namespaces: namespaces,
		queue:      queue,
		elector:    NewLeaderElector(log, redisOpt, redisCfg.PrefixKey("scheduler:leader")),
		tracker:    newScheduleTracker(log, trackerClient, redisCfg.PrefixKey("scheduler:task:")),
		interval:   interval,
	}, nil
}

// Start initializes and starts the scheduler service
func (s *service) Start(ctx context.Context) error {
	if err := s.elector.Start(ctx); err != nil {
		return fmt.Errorf("failed to start leader election: %w", err)
	}

	s.wg.Add(1)
	go s.run(ctx)

	s.log.WithFields(logrus.Fields{
		"schedule": s.cfg.Schedule,
		"interval": s.interval,
	}).Info("Scheduler service started (participating in leader election)")

	return nil
}

// Stop gracefully shuts down the scheduler service
func (s *service) Stop() error {
	close(s.done)

	if err := s.elector.Stop(); err != nil {
		s.log.WithError(err).Warn("Failed to stop leader elector")
	}

	s.wg.Wait()

	if err := s.tracker.Close(); err != nil {
		s.log.WithError(err).Warn("Failed to close schedule tracker")
	}

	s.log.Info("Scheduler service stopped successfully")

	return nil
}

func (s *service) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return

		case <-ctx.Done():
			return

		case <-s.elector.PromotedChan():
			s.log.Info("Promoted to scheduler leader")
			// A fresh leader re-reads the last run from Redis rather than
			// trusting a cache from an earlier leadership term
			s.nextRun = time.Time{}

		case <-s.elector.DemotedChan():
			s.log.Info("Demoted from scheduler leader")

		case <-ticker.C:
			if !s.elector.IsLeader() {
				continue
			}

			s.checkSchedule(ctx)
		}
	}
}

func (s *service) checkSchedule(ctx context.Context) {
	now := time.Now().UTC()

	if !s.nextRun.IsZero() && now.Before(s.nextRun) {
		return
	}

	lastRun, err := s.tracker.GetLastRun(ctx, scheduleTaskID)
	if err != nil {
		s.log.WithError(err).Warn("Failed to get last run, will retry next tick")

		return
	}

	nextRun := lastRun.Add(s.interval)
	s.nextRun = nextRun

	if now.Before(nextRun) {
		return
	}

	s.runGeneration(ctx, now)
}

// runGeneration reloads the metrics configuration and enqueues one
// generation task per configured namespace
func (s *service) runGeneration(ctx context.Context, now time.Time) {
	runID := uuid.New().String()

	if err := s.registry.Reload(); err != nil {
		s.log.WithError(err).Error("Failed to reload metrics configuration")
		observability.RecordGenerationRun(tasks.TriggerSchedule, "failed")

		return
	}

	observability.RecordRegistryNamespaces(float64(len(s.registry.Namespaces())))

	enqueued := 0

	for _, namespace := range s.namespaces.Names() {
		payload := tasks.GenerationPayload{
			Namespace:  namespace,
			RunID:      runID,
			Trigger:    tasks.TriggerSchedule,
			EnqueuedAt: now,
		}

		if err := s.queue.EnqueueGeneration(payload); err != nil {
			// Still queued from a previous run, the worker will catch up
			if errors.Is(err, tasks.ErrTaskAlreadyQueued) {
				s.log.WithField("namespace", namespace).Debug("Generation already queued, skipping")

				continue
			}

			s.log.WithError(err).WithField("namespace", namespace).Error("Failed to enqueue generation task")

			continue
		}

		enqueued++
	}

	if err := s.tracker.SetLastRun(ctx, scheduleTaskID, now); err != nil {
		s.log.WithError(err).Error("Failed to update last run timestamp")
	}

	s.nextRun = now.Add(s.interval)

	if err := s.queue.RecordQueueMetrics(tasks.QueueGeneration); err != nil {
		s.log.WithError(err).Debug("Failed to record queue metrics")
	}

	observability.RecordGenerationRun(tasks.TriggerSchedule, "enqueued")

	s.log.WithFields(logrus.Fields{
		"run_id":     runID,
		"enqueued":   enqueued,
		"namespaces": len(s.namespaces),
	}).Info("Scheduled generation run enqueued")
}

// parseScheduleInterval converts a cron schedule string to a duration.
// Supports the @every format and standard five-field cron expressions.
func parseScheduleInterval(schedule string) (time.Duration, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	sched, err := parser.Parse(schedule)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule format: %w", err)
	}

	// For @every, extract the duration directly
	if len(schedule) > 7 && schedule[:6] == "@every" {
		duration, err := time.ParseDuration(schedule[7:])
		if err != nil {
			return 0, fmt.Errorf("failed to parse @every duration: %w", err)
		}

		return duration, nil
	}

	// For cron expressions, derive the interval from two consecutive runs
	now := time.Now()
	next1 := sched.Next(now)
	next2 := sched.Next(next1)

	return next2.Sub(next1), nil
}

// Ensure service implements the interface
var _ Service = (*service)(nil)
