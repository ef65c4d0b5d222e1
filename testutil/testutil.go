// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/VENUHARGI/OnlineVoting/auth"
	"github.com/VENUHARGI/OnlineVoting/cliparse"
	"github.com/VENUHARGI/OnlineVoting/db"
	"github.com/VENUHARGI/OnlineVoting/models"
)

// TestPassword satisfies the password strength rules
const TestPassword = "Ballot#2024"

// SetupTestDB creates a fresh sqlite database with the full schema and seed data
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if err := db.Seed(conn); err != nil {
		t.Fatalf("Failed to seed database: %v", err)
	}
	return conn
}

// GetTestConfig returns a config with dev mode on and an open voting window
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseType:    db.TypeSQLite,
		TokenSecret:     "test-token-secret",
		IPHashSalt:      "test-ip-salt",
		OTPExpiry:       10 * time.Minute,
		OTPMaxAttempts:  3,
		ResendCooldown:  60 * time.Second,
		LockoutAttempts: 5,
		LockoutDuration: 30 * time.Minute,
		TokenTTL:        time.Hour,
		DevMode:         true,
	}
}

// CreateTestUser inserts a user with TestPassword and returns its id
func CreateTestUser(t *testing.T, conn *sql.DB, email string, verified bool) int64 {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO users (first_name, last_name, email, password_hash, is_verified, failed_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
		RETURNING id
	`, "Test", "Voter", email, hash, verified, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// IssueTestToken signs a session token for the user
func IssueTestToken(t *testing.T, cfg cliparse.Config, userID int64, email string) string {
	t.Helper()

	token, _, err := auth.IssueToken(userID, email, cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// AuthHeader returns an Authorization header map for MakeRequest
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestOTP stores an active code and returns it
func CreateTestOTP(t *testing.T, conn *sql.DB, email string, purpose models.OTPPurpose, code string, expiresAt time.Time) {
	t.Helper()

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO otp_codes (email, code, purpose, attempts, is_used, expires_at, created_at)
		VALUES ($1, $2, $3, 0, FALSE, $4, $5)
	`, email, code, string(purpose), expiresAt.UTC(), now)
	if err != nil {
		t.Fatalf("Failed to create test OTP: %v", err)
	}
}

// LatestOTP returns the newest code for (email, purpose)
func LatestOTP(t *testing.T, conn *sql.DB, email string, purpose models.OTPPurpose) string {
	t.Helper()

	var code string
	err := conn.QueryRow(`
		SELECT code FROM otp_codes
		WHERE email = $1 AND purpose = $2
		ORDER BY id DESC LIMIT 1
	`, email, string(purpose)).Scan(&code)
	if err != nil {
		t.Fatalf("Failed to read OTP: %v", err)
	}
	return code
}

// CreateTestVote records a vote for the user and returns its transaction id
func CreateTestVote(t *testing.T, conn *sql.DB, userID, constituencyID, candidateID, partyID int64) string {
	t.Helper()

	txID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO votes (transaction_id, user_id, constituency_id, candidate_id, party_id, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, txID, userID, constituencyID, candidateID, partyID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	return txID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// DecodeEnvelope decodes the envelope and, when data is non-nil, its data field
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) models.RawEnvelope {
	t.Helper()
	var env models.RawEnvelope
	AssertJSON(t, w, &env)
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("Failed to decode envelope data: %v", err)
		}
	}
	return env
}

// AssertCode checks the envelope error code
func AssertCode(t *testing.T, env models.RawEnvelope, expected models.ErrorCode) {
	t.Helper()
	if env.ErrorCode != expected {
		t.Errorf("Expected errorCode %q, got %q (message %q)", expected, env.ErrorCode, env.Message)
	}
}
