package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// scheduleTracker persists last-run timestamps for scheduled work in Redis
type scheduleTracker interface {
	// GetLastRun retrieves the last run timestamp for a task.
	// Returns zero time if the task has never run.
	GetLastRun(ctx context.Context, taskID string) (time.Time, error)

	// SetLastRun updates the last run timestamp for a task.
	// Persists with no TTL so the schedule survives restarts.
	SetLastRun(ctx context.Context, taskID string, timestamp time.Time) error

	// Close releases resources held by the tracker
	Close() error
}

type redisScheduleTracker struct {
	log       logrus.FieldLogger
	redis     *redis.Client
	keyPrefix string
}

// newScheduleTracker creates a Redis-backed schedule tracker storing keys
// under keyPrefix
func newScheduleTracker(log logrus.FieldLogger, redisClient *redis.Client, keyPrefix string) scheduleTracker {
	return &redisScheduleTracker{
		log:       log.WithField("component", "schedule_tracker"),
		redis:     redisClient,
		keyPrefix: keyPrefix,
	}
}

func (r *redisScheduleTracker) GetLastRun(ctx context.Context, taskID string) (time.Time, error) {
	key := r.keyPrefix + taskID

	val, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Never run before
			return time.Time{}, nil
		}

		return time.Time{}, fmt.Errorf("failed to get last run for task %s: %w", taskID, err)
	}

	timestamp, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp for task %s: %w", taskID, err)
	}

	return timestamp, nil
}

func (r *redisScheduleTracker) SetLastRun(ctx context.Context, taskID string, timestamp time.Time) error {
	key := r.keyPrefix + taskID

	if err := r.redis.Set(ctx, key, timestamp.Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("failed to set last run for task %s: %w", taskID, err)
	}

	r.log.WithFields(logrus.Fields{
		"task_id":   taskID,
		"timestamp": timestamp,
	}).Debug("Updated last run for task")

	return nil
}

func (r *redisScheduleTracker) Close() error {
	if r.redis != nil {
		return r.redis.Close()
	}

	return nil
}

// Verify interface compliance at compile time
var _ scheduleTracker = (*redisScheduleTracker)(nil)
