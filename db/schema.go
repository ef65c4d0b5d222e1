// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	idColumn := "BIGSERIAL PRIMARY KEY"
	if dbType == TypeSQLite {
		idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	_, err := db.Exec(fmt.Sprintf(schema, idColumn))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are written by the application in UTC; no column defaults to NOW().
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id %[1]s,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone_number TEXT UNIQUE,
    password_hash TEXT NOT NULL,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    failed_attempts INTEGER NOT NULL DEFAULT 0,
    locked_until TIMESTAMP,
    last_login_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

-- One-time codes
CREATE TABLE IF NOT EXISTS otp_codes (
    id %[1]s,
    email TEXT NOT NULL,
    code TEXT NOT NULL,
    purpose TEXT NOT NULL CHECK (purpose IN ('SIGNUP', 'LOGIN', 'PASSWORD_RESET')),
    attempts INTEGER NOT NULL DEFAULT 0,
    is_used BOOLEAN NOT NULL DEFAULT FALSE,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_otp_codes_email_purpose ON otp_codes(email, purpose);
CREATE INDEX IF NOT EXISTS idx_otp_codes_expires_at ON otp_codes(expires_at);

-- Constituencies
CREATE TABLE IF NOT EXISTS constituencies (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    district TEXT NOT NULL,
    voter_count BIGINT NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

-- Parties
CREATE TABLE IF NOT EXISTS parties (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    symbol TEXT NOT NULL,
    color_code TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    party_id BIGINT NOT NULL REFERENCES parties(id),
    constituency_id BIGINT NOT NULL REFERENCES constituencies(id),
    qualification TEXT,
    bio TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    UNIQUE (constituency_id, party_id)
);

CREATE INDEX IF NOT EXISTS idx_candidates_constituency_id ON candidates(constituency_id);

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    id %[1]s,
    transaction_id TEXT NOT NULL UNIQUE,
    user_id BIGINT NOT NULL UNIQUE REFERENCES users(id),
    constituency_id BIGINT NOT NULL REFERENCES constituencies(id),
    candidate_id BIGINT NOT NULL REFERENCES candidates(id),
    party_id BIGINT NOT NULL REFERENCES parties(id),
    voted_at TIMESTAMP NOT NULL,
    ip_hash TEXT,
    user_agent TEXT
);

CREATE INDEX IF NOT EXISTS idx_votes_constituency_id ON votes(constituency_id);
CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id);
`
