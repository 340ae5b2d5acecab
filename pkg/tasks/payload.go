package tasks

import (
	"fmt"
	"time"
)

// GenerationPayload represents the payload for a namespace generation task
type GenerationPayload struct {
	Namespace  string    `json:"namespace"`
	RunID      string    `json:"run_id"`
	Trigger    string    `json:"trigger"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// UniqueID returns a stable task identifier so at most one generation
// task per namespace sits in the queue at a time
func (p GenerationPayload) UniqueID() string {
	return fmt.Sprintf("%s:%s", TypeGeneration, p.Namespace)
}
