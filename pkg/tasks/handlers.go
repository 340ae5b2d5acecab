package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/observability"
)

// TaskHandler executes generation tasks pulled off the queue
type TaskHandler struct {
	generator  *generator.Service
	namespaces generator.NamespacesConfig
	log        logrus.FieldLogger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(log logrus.FieldLogger, gen *generator.Service, namespaces generator.NamespacesConfig) *TaskHandler {
	return &TaskHandler{
		generator:  gen,
		namespaces: namespaces,
		log:        log.WithField("component", "task-handler"),
	}
}

// HandleGeneration handles a single-namespace generation task
func (h *TaskHandler) HandleGeneration(ctx context.Context, t *asynq.Task) error {
	var payload GenerationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		observability.RecordError("task-handler", "unmarshal_error")

		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.log.WithFields(logrus.Fields{
		"namespace": payload.Namespace,
		"run_id":    payload.RunID,
		"trigger":   payload.Trigger,
	}).Info("Starting generation task")

	startTime := time.Now()

	report, err := h.generator.GenerateNamespace(ctx, h.namespaces, payload.Namespace)
	if err != nil {
		observability.RecordTaskComplete(payload.Namespace, "failed", time.Since(startTime).Seconds())
		observability.RecordError("task-handler", "generation_error")

		return fmt.Errorf("generation error: %w", err)
	}

	observability.RecordTaskComplete(payload.Namespace, "success", time.Since(startTime).Seconds())

	h.log.WithFields(logrus.Fields{
		"namespace": payload.Namespace,
		"generated": len(report.Generated),
		"empty":     len(report.Empty),
		"duration":  time.Since(startTime),
	}).Info("Generation task completed")

	return nil
}

// Routes returns the task handler routes for Asynq
func (h *TaskHandler) Routes() map[string]asynq.HandlerFunc {
	return map[string]asynq.HandlerFunc{
		TypeGeneration: h.HandleGeneration,
	}
}
