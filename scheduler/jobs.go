// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// OTPRetention is how long expired codes are kept before deletion
const OTPRetention = time.Hour

const jobTimeout = 30 * time.Second

// Jobs holds the housekeeping tasks
type Jobs struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewJobs(db *sql.DB, logger *slog.Logger) *Jobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Jobs{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// PurgeExpiredOTPs is the cron entry for DeleteExpiredOTPs
func (j *Jobs) PurgeExpiredOTPs() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := j.DeleteExpiredOTPs(ctx)
	if err != nil {
		j.logger.Error("otp purge failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("purged expired otp codes", "count", n)
	}
}

// ReleaseExpiredLocks is the cron entry for ClearExpiredLocks
func (j *Jobs) ReleaseExpiredLocks() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := j.ClearExpiredLocks(ctx)
	if err != nil {
		j.logger.Error("lock release failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("released account locks", "count", n)
	}
}

// DeleteExpiredOTPs removes codes that expired more than OTPRetention ago
func (j *Jobs) DeleteExpiredOTPs(ctx context.Context) (int64, error) {
	res, err := j.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE expires_at < $1`, j.now().Add(-OTPRetention))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearExpiredLocks resets accounts whose lock has run out
func (j *Jobs) ClearExpiredLocks(ctx context.Context) (int64, error) {
	res, err := j.db.ExecContext(ctx, `
		UPDATE users SET locked_until = NULL, failed_attempts = 0
		WHERE locked_until IS NOT NULL AND locked_until < $1
	`, j.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
