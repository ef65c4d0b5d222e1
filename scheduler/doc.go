// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler runs periodic database housekeeping with robfig/cron.

Jobs:

  - PurgeExpiredOTPs: deletes codes that expired more than an hour ago
  - ReleaseExpiredLocks: clears locked_until values in the past

Both run on DefaultSchedule (every five minutes). Panics inside a job are
recovered and logged through slog.

	s := scheduler.NewScheduler(scheduler.NewJobs(db, logger), logger, "")
	if err := s.Start(); err != nil { ... }
	defer s.Stop()
*/
package scheduler
