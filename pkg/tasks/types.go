// Package tasks provides generation task queuing using Asynq
package tasks

const (
	// TypeGeneration is the task type for single-namespace generation runs
	TypeGeneration = "generation:namespace"

	// QueueGeneration is the queue generation tasks are routed to
	QueueGeneration = "generation"
)

// Trigger labels recorded on generation payloads
const (
	// TriggerSchedule marks tasks enqueued by the cron scheduler
	TriggerSchedule = "schedule"
	// TriggerAPI marks tasks enqueued through the HTTP API
	TriggerAPI = "api"
	// TriggerCLI marks tasks enqueued by a CLI invocation
	TriggerCLI = "cli"
)
