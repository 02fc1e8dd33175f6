package usecase

import (
	"context"
	"log/slog"
	"time"

	"DailyDigest/internal/ports"
)

// Scheduler wires the timer driver with the composer use case.
type Scheduler struct {
	driver   ports.Scheduler
	composer *Composer
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring generation job.
func NewScheduler(driver ports.Scheduler, composer *Composer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, composer: composer, logger: logger}
}

// Start registers digest generation with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.composer == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.logger.Info("scheduled digest generation triggered", "at", trigger.Format(time.RFC3339))
		if _, err := s.composer.Generate(ctx); err != nil {
			s.logger.Error("scheduled digest generation failed", "error", err)
			return
		}
		s.logger.Info("scheduled digest generation completed")
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
