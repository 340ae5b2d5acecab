package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/hwine/lookml-generator/pkg/observability"
)

// ErrTaskAlreadyQueued is returned when a generation task for the same
// namespace is already pending or running
var ErrTaskAlreadyQueued = errors.New("generation task already queued")

// QueueManager manages the generation task queue
type QueueManager struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewQueueManager creates a new queue manager
func NewQueueManager(redisOpt *asynq.RedisClientOpt) *QueueManager {
	return &QueueManager{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

// EnqueueGeneration enqueues a generation task for a namespace.
// Returns ErrTaskAlreadyQueued when the namespace already has a task queued.
func (m *QueueManager) EnqueueGeneration(payload GenerationPayload, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeGeneration, data)

	defaultOpts := []asynq.Option{
		asynq.TaskID(payload.UniqueID()),
		asynq.Queue(QueueGeneration),
		asynq.MaxRetry(3),
		asynq.Timeout(10 * time.Minute),
	}

	// Caller options take precedence over defaults
	allOpts := append(defaultOpts, opts...)

	if _, err := m.client.Enqueue(task, allOpts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return fmt.Errorf("%w: %s", ErrTaskAlreadyQueued, payload.Namespace)
		}

		return fmt.Errorf("failed to enqueue generation task: %w", err)
	}

	observability.RecordTaskEnqueued(payload.Namespace, payload.Trigger)

	return nil
}

// IsGenerationPendingOrRunning reports whether a generation task for the
// namespace is already waiting in the queue or being worked on
func (m *QueueManager) IsGenerationPendingOrRunning(namespace string) (bool, error) {
	taskID := GenerationPayload{Namespace: namespace}.UniqueID()

	info, err := m.inspector.GetTaskInfo(QueueGeneration, taskID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to inspect task %s: %w", taskID, err)
	}

	switch info.State {
	case asynq.TaskStatePending, asynq.TaskStateActive, asynq.TaskStateScheduled, asynq.TaskStateRetry:
		return true, nil
	default:
		return false, nil
	}
}

// GetQueueStats returns statistics for a queue
func (m *QueueManager) GetQueueStats(queueName string) (*asynq.QueueInfo, error) {
	info, err := m.inspector.GetQueueInfo(queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue info for %s: %w", queueName, err)
	}

	return info, nil
}

// RecordQueueMetrics exports depth gauges for a queue. A queue that has
// never seen a task is reported as empty rather than an error.
func (m *QueueManager) RecordQueueMetrics(queueName string) error {
	info, err := m.inspector.GetQueueInfo(queueName)
	if err != nil {
		if isNotFound(err) {
			return nil
		}

		return fmt.Errorf("failed to get queue info for %s: %w", queueName, err)
	}

	observability.RecordQueueDepth(queueName, "pending", float64(info.Pending))
	observability.RecordQueueDepth(queueName, "active", float64(info.Active))
	observability.RecordQueueDepth(queueName, "scheduled", float64(info.Scheduled))
	observability.RecordQueueDepth(queueName, "retry", float64(info.Retry))

	return nil
}

// Close closes the queue manager connections
func (m *QueueManager) Close() error {
	if err := m.inspector.Close(); err != nil {
		return fmt.Errorf("failed to close inspector: %w", err)
	}

	return m.client.Close()
}

func isNotFound(err error) bool {
	return errors.Is(err, asynq.ErrQueueNotFound) || errors.Is(err, asynq.ErrTaskNotFound)
}
