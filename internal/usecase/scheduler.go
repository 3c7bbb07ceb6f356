package usecase

import (
	"context"
	"time"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case. Scheduled runs
// are non-interactive: the edition window is derived from the trigger time
// and the digest stops at the preview stage for later human review.
type Scheduler struct {
	driver    ports.Scheduler
	pipeline  *Pipeline
	outputDir string
}

// NewScheduler returns a helper to start/stop recurring roundup runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, outputDir string) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, outputDir: outputDir}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		opts := RunOptions{
			Window:      domain.WindowFor(trigger),
			PreviewOnly: true,
			OutputDir:   s.outputDir,
		}
		if _, err := s.pipeline.Run(ctx, opts); err != nil {
			s.pipeline.warn("scheduled run failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
