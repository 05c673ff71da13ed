package worker

import (
	"fmt"
	"time"
)

// Config controls how the job worker polls and runs jobs.
type Config struct {
	// Concurrency is the number of polling goroutines.
	Concurrency int

	// PollInterval is how often an idle goroutine asks for a job.
	PollInterval time.Duration

	// JobTimeout bounds a single handler run.
	JobTimeout time.Duration

	// ShutdownTimeout bounds how long Stop waits for running jobs.
	ShutdownTimeout time.Duration

	// StaleJobThreshold is the age after which a running job is assumed
	// orphaned and is put back in the queue on Start.
	StaleJobThreshold time.Duration
}

// DefaultConfig returns the settings used by the server.
func DefaultConfig() Config {
	return Config{
		Concurrency:       1,
		PollInterval:      5 * time.Second,
		JobTimeout:        2 * time.Minute,
		ShutdownTimeout:   15 * time.Second,
		StaleJobThreshold: 10 * time.Minute,
	}
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Concurrency < 1:
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	case c.Concurrency > 32:
		return fmt.Errorf("concurrency too high (max 32), got %d", c.Concurrency)
	case c.PollInterval < 100*time.Millisecond:
		return fmt.Errorf("poll interval must be at least 100ms, got %v", c.PollInterval)
	case c.JobTimeout < time.Second:
		return fmt.Errorf("job timeout must be at least 1 second, got %v", c.JobTimeout)
	case c.ShutdownTimeout < time.Second:
		return fmt.Errorf("shutdown timeout must be at least 1 second, got %v", c.ShutdownTimeout)
	case c.StaleJobThreshold < time.Minute:
		return fmt.Errorf("stale job threshold must be at least 1 minute, got %v", c.StaleJobThreshold)
	}
	return nil
}
