package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/observability"
	"github.com/hwine/lookml-generator/pkg/tasks"
)

// GenerateRequest optionally narrows a generation run to specific namespaces.
// An empty request enqueues every configured namespace.
type GenerateRequest struct {
	Namespaces []string `json:"namespaces"`
}

// Generate handles POST /api/v1/generate. Generation runs asynchronously
// through the task queue, so the response only confirms what was enqueued.
func (s *Server) Generate(c fiber.Ctx) error {
	var req GenerateRequest

	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	targets := req.Namespaces
	if len(targets) == 0 {
		targets = s.namespaces.Names()
	}

	for _, namespace := range targets {
		if _, ok := s.namespaces[namespace]; !ok {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("namespace not found: %s", namespace))
		}
	}

	runID := uuid.New().String()
	enqueued := make([]string, 0, len(targets))
	skipped := make([]string, 0)

	for _, namespace := range targets {
		payload := tasks.GenerationPayload{
			Namespace:  namespace,
			RunID:      runID,
			Trigger:    tasks.TriggerAPI,
			EnqueuedAt: time.Now().UTC(),
		}

		if err := s.queue.EnqueueGeneration(payload); err != nil {
			if errors.Is(err, tasks.ErrTaskAlreadyQueued) {
				skipped = append(skipped, namespace)
				continue
			}

			s.log.WithError(err).WithField("namespace", namespace).Error("Failed to enqueue generation task")

			return fiber.NewError(fiber.StatusInternalServerError, "failed to enqueue generation")
		}

		enqueued = append(enqueued, namespace)
	}

	observability.RecordGenerationRun(tasks.TriggerAPI, "enqueued")

	s.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"enqueued": len(enqueued),
		"skipped":  len(skipped),
	}).Info("Generation run requested")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"run_id":   runID,
		"enqueued": enqueued,
		"skipped":  skipped,
	})
}
