// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/VENUHARGI/OnlineVoting/middleware"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/validate"
)

type userRecord struct {
	id           int64
	firstName    string
	lastName     string
	email        string
	phone        sql.NullString
	passwordHash string
	verified     bool
	lockedUntil  sql.NullTime
}

func (u userRecord) profile() models.UserProfile {
	return models.UserProfile{
		UserID:      u.id,
		FirstName:   u.firstName,
		LastName:    u.lastName,
		FullName:    strings.TrimSpace(u.firstName + " " + u.lastName),
		Email:       u.email,
		PhoneNumber: u.phone.String,
		IsVerified:  u.verified,
	}
}

// findUserByEmail returns sql.ErrNoRows for unknown emails
func findUserByEmail(db *sql.DB, email string) (userRecord, error) {
	var u userRecord
	err := db.QueryRow(`
		SELECT id, first_name, last_name, email, phone_number, password_hash,
		       is_verified, locked_until
		FROM users
		WHERE email = $1
	`, email).Scan(
		&u.id, &u.firstName, &u.lastName, &u.email, &u.phone, &u.passwordHash,
		&u.verified, &u.lockedUntil,
	)
	return u, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone keeps only the digits, so formatting never tells two
// numbers apart
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// validationError writes a VALIDATION_ERROR envelope with per-field messages
func validationError(w http.ResponseWriter, err error) {
	var errs *validate.Errors
	if !errors.As(err, &errs) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, err.Error())
		return
	}
	middleware.JSONResponse(w, http.StatusBadRequest, models.Envelope{
		Success:   false,
		Message:   errs.First(),
		ErrorCode: models.CodeValidation,
		Data:      errs.Map(),
		Timestamp: time.Now().UTC(),
	})
}
