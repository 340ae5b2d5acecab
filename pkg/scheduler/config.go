// Package scheduler enqueues generation runs on a schedule, with Redis
// leader election so only one instance schedules at a time.
package scheduler

import (
	"errors"
)

var (
	// ErrScheduleRequired is returned when no schedule is configured
	ErrScheduleRequired = errors.New("schedule is required")
)

// Config defines scheduler configuration
type Config struct {
	Schedule string `yaml:"schedule" default:"@every 1h"`
}

// Validate checks if the scheduler configuration is valid
func (c *Config) Validate() error {
	if c.Schedule == "" {
		return ErrScheduleRequired
	}

	if _, err := parseScheduleInterval(c.Schedule); err != nil {
		return err
	}

	return nil
}
