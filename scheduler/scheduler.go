// Package scheduler runs the relay pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents one scheduled pipeline run.
type Job func(ctx context.Context) error

// Scheduler triggers jobs from cron expressions. Overlapping triggers are
// serialized: a tick that fires while the previous run is still active waits
// for it instead of starting a second writer against the ledger.
type Scheduler struct {
	cron       *cron.Cron
	runTimeout time.Duration
}

// New creates a scheduler. runTimeout bounds each triggered run.
func New(runTimeout time.Duration) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = 30 * time.Minute
	}
	return &Scheduler{
		cron:       cron.New(cron.WithChain(cron.DelayIfStillRunning(cron.DefaultLogger))),
		runTimeout: runTimeout,
	}
}

// AddJob registers a job under the given cron expression.
// schedule format: "0 * * * *" (hourly, on the hour)
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		log.Printf("scheduler: starting job %s", name)
		start := time.Now()

		if err := job(ctx); err != nil {
			log.Printf("scheduler: job %s failed: %v", name, err)
		} else {
			log.Printf("scheduler: job %s completed in %v", name, time.Since(start))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}

	log.Printf("scheduler: added job %s (schedule: %s)", name, schedule)
	return nil
}

// Start begins triggering jobs and blocks until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	// Let an in-flight run finish before returning.
	<-s.cron.Stop().Done()
}
