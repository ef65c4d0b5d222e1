// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/subtle"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/VENUHARGI/OnlineVoting/auth"
	"github.com/VENUHARGI/OnlineVoting/cliparse"
	"github.com/VENUHARGI/OnlineVoting/middleware"
	"github.com/VENUHARGI/OnlineVoting/models"
)

// otpCheck is the outcome of checking a submitted code
type otpCheck int

const (
	otpValid otpCheck = iota
	otpMissing
	otpUsed
	otpExpired
	otpMismatch
	otpExhausted
)

// issueOTP burns any active codes for (email, purpose) and stores a new one.
// The code is only returned to the caller in dev mode.
func issueOTP(db *sql.DB, cfg cliparse.Config, email string, purpose models.OTPPurpose) (models.OTPIssued, error) {
	code, err := auth.GenerateOTPCode()
	if err != nil {
		return models.OTPIssued{}, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(cfg.OTPExpiry)

	tx, err := db.Begin()
	if err != nil {
		return models.OTPIssued{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE otp_codes SET is_used = TRUE
		WHERE email = $1 AND purpose = $2 AND is_used = FALSE
	`, email, string(purpose))
	if err != nil {
		return models.OTPIssued{}, fmt.Errorf("failed to invalidate codes: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO otp_codes (email, code, purpose, attempts, is_used, expires_at, created_at)
		VALUES ($1, $2, $3, 0, FALSE, $4, $5)
	`, email, code, string(purpose), expiresAt, now)
	if err != nil {
		return models.OTPIssued{}, fmt.Errorf("failed to store code: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.OTPIssued{}, fmt.Errorf("failed to commit code: %w", err)
	}

	issued := models.OTPIssued{Email: email, Purpose: purpose, ExpiresAt: expiresAt}
	if cfg.DevMode {
		// No delivery channel; dev mode hands the code back and logs it
		issued.OTPCode = code
		slog.Info("otp issued", "email", email, "purpose", purpose, "code", code)
	} else {
		slog.Info("otp issued", "email", email, "purpose", purpose)
	}
	return issued, nil
}

// otpCooldown returns how long until another code may be issued
func otpCooldown(db *sql.DB, cfg cliparse.Config, email string, purpose models.OTPPurpose) (time.Duration, error) {
	var createdAt time.Time
	err := db.QueryRow(`
		SELECT created_at FROM otp_codes
		WHERE email = $1 AND purpose = $2
		ORDER BY id DESC LIMIT 1
	`, email, string(purpose)).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	wait := cfg.ResendCooldown - time.Since(createdAt)
	if wait < 0 {
		return 0, nil
	}
	return wait, nil
}

// checkOTP verifies code against the newest code for (email, purpose).
// A wrong code costs an attempt; the last allowed attempt burns the code.
// A correct code is consumed. remaining is only meaningful for otpMismatch.
func checkOTP(db *sql.DB, cfg cliparse.Config, email, code string, purpose models.OTPPurpose) (result otpCheck, remaining int, err error) {
	var (
		id        int64
		stored    string
		attempts  int
		used      bool
		expiresAt time.Time
	)
	err = db.QueryRow(`
		SELECT id, code, attempts, is_used, expires_at
		FROM otp_codes
		WHERE email = $1 AND purpose = $2
		ORDER BY id DESC LIMIT 1
	`, email, string(purpose)).Scan(&id, &stored, &attempts, &used, &expiresAt)
	if err == sql.ErrNoRows {
		return otpMissing, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	if used {
		return otpUsed, 0, nil
	}
	if !time.Now().Before(expiresAt) {
		return otpExpired, 0, nil
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		// Count in the database so concurrent guesses each see their own attempt
		err = db.QueryRow(`
			UPDATE otp_codes SET attempts = attempts + 1
			WHERE id = $1 AND is_used = FALSE
			RETURNING attempts
		`, id).Scan(&attempts)
		if err == sql.ErrNoRows {
			return otpUsed, 0, nil
		}
		if err != nil {
			return 0, 0, err
		}
		if attempts >= cfg.OTPMaxAttempts {
			_, err = db.Exec(`UPDATE otp_codes SET is_used = TRUE WHERE id = $1`, id)
			return otpExhausted, 0, err
		}
		return otpMismatch, cfg.OTPMaxAttempts - attempts, nil
	}

	// Consume; a concurrent verify of the same code loses here
	res, err := db.Exec(`UPDATE otp_codes SET is_used = TRUE WHERE id = $1 AND is_used = FALSE`, id)
	if err != nil {
		return 0, 0, err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return otpUsed, 0, nil
	}
	return otpValid, 0, nil
}

// writeOTPFailure answers a failed check with its error code
func writeOTPFailure(w http.ResponseWriter, result otpCheck, remaining int) {
	switch result {
	case otpMissing:
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidOTP, "No verification code found. Please request a new one.")
	case otpUsed:
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeOTPUsed, "This code has already been used. Please request a new one.")
	case otpExpired:
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeOTPExpired, "OTP has expired. Please request a new one.")
	case otpMismatch:
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidOTP, fmt.Sprintf("Invalid OTP. %d attempt(s) remaining.", remaining))
	case otpExhausted:
		middleware.ErrorResponse(w, http.StatusTooManyRequests, models.CodeTooManyAttempts, "Too many failed attempts. Please request a new code.")
	}
}
