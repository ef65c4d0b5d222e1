// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs housekeeping every five minutes
const DefaultSchedule = "*/5 * * * *"

// Scheduler runs the housekeeping jobs on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	jobs     *Jobs
	logger   *slog.Logger
	schedule string
}

// NewScheduler creates a scheduler; an empty schedule means DefaultSchedule
func NewScheduler(jobs *Jobs, logger *slog.Logger, schedule string) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:     c,
		jobs:     jobs,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the cron scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.jobs.PurgeExpiredOTPs); err != nil {
		return err
	}
	s.logger.Info("scheduled otp purge job", "schedule", s.schedule)

	if _, err := s.cron.AddFunc(s.schedule, s.jobs.ReleaseExpiredLocks); err != nil {
		return err
	}
	s.logger.Info("scheduled lock release job", "schedule", s.schedule)

	s.cron.Start()
	return nil
}

// Stop stops the scheduler; the context is done once running jobs finish
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
