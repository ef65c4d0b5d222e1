// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/VENUHARGI/OnlineVoting/models"
)

// Storage keys
const (
	KeyToken   = "auth_token"
	KeyProfile = "user_data"
	KeyPending = "pending_verification"
	KeyDevOTP  = "dev_otp"
)

var (
	ErrNoToken   = errors.New("not signed in")
	ErrExpired   = errors.New("session has expired")
	ErrNoPending = errors.New("no verification in progress")
)

// Pending is the context of an OTP verification started by another page
type Pending struct {
	Purpose models.OTPPurpose `json:"purpose"`
	Email   string            `json:"email"`
	UserID  int64             `json:"userId,omitempty"`
	// Where the session goes once a login code is verified
	Remember bool `json:"remember,omitempty"`
}

// Store keeps credentials in one of two scopes: persistent ("remember
// me") or tab (current terminal session). A credential is only ever held
// in one of them.
type Store struct {
	persistent Storage
	tab        Storage
	now        func() time.Time
}

func NewStore(persistent, tab Storage) *Store {
	return &Store{persistent: persistent, tab: tab, now: time.Now}
}

// SetToken writes the token to exactly one scope and removes it from the other
func (s *Store) SetToken(token string, remember bool) error {
	return s.setExclusive(KeyToken, token, remember)
}

// Token returns the persistent token, else the tab token, else ""
func (s *Store) Token() string {
	if v, ok := s.persistent.Get(KeyToken); ok && v != "" {
		return v
	}
	if v, ok := s.tab.Get(KeyToken); ok && v != "" {
		return v
	}
	return ""
}

// RequireToken is Token with ErrNoToken for the missing case
func (s *Store) RequireToken() (string, error) {
	if t := s.Token(); t != "" {
		return t, nil
	}
	return "", ErrNoToken
}

// Remembered reports whether the current token lives in the persistent scope
func (s *Store) Remembered() bool {
	v, ok := s.persistent.Get(KeyToken)
	return ok && v != ""
}

// SetProfile stores the profile under the same one-scope policy as the token
func (s *Store) SetProfile(p models.UserProfile, remember bool) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.setExclusive(KeyProfile, string(raw), remember)
}

func (s *Store) Profile() (models.UserProfile, bool) {
	var p models.UserProfile
	for _, st := range []Storage{s.persistent, s.tab} {
		if v, ok := st.Get(KeyProfile); ok && v != "" {
			if err := json.Unmarshal([]byte(v), &p); err == nil {
				return p, true
			}
		}
	}
	return p, false
}

// IsAuthenticated is derived from the token alone: present and, when it
// is a JWT, not past its exp claim. The signature is not checked here.
func (s *Store) IsAuthenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	exp, ok := tokenExpiry(token)
	if !ok {
		return true
	}
	return s.now().Before(exp)
}

// UserID returns the signed-in user from the profile, falling back to the token subject
func (s *Store) UserID() (int64, bool) {
	if p, ok := s.Profile(); ok && p.UserID > 0 {
		return p.UserID, true
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token(), &claims); err == nil {
		if id, err := strconv.ParseInt(claims.Subject, 10, 64); err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

// SetPending records which verification the OTP step should perform
func (s *Store) SetPending(p Pending) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.tab.Set(KeyPending, string(raw))
}

func (s *Store) Pending() (Pending, error) {
	var p Pending
	v, ok := s.tab.Get(KeyPending)
	if !ok || v == "" {
		return p, ErrNoPending
	}
	if err := json.Unmarshal([]byte(v), &p); err != nil {
		return p, ErrNoPending
	}
	return p, nil
}

func (s *Store) ClearPending() error {
	return s.tab.Delete(KeyPending)
}

// SetDevOTP caches a code returned by a development server
func (s *Store) SetDevOTP(code string) error {
	if code == "" {
		return s.persistent.Delete(KeyDevOTP)
	}
	return s.persistent.Set(KeyDevOTP, code)
}

func (s *Store) DevOTP() string {
	v, _ := s.persistent.Get(KeyDevOTP)
	return v
}

// Clear removes token, profile, pending verification and dev code from both scopes
func (s *Store) Clear() error {
	var errs []error
	for _, st := range []Storage{s.persistent, s.tab} {
		for _, key := range []string{KeyToken, KeyProfile, KeyPending, KeyDevOTP} {
			if err := st.Delete(key); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Store) setExclusive(key, value string, remember bool) error {
	keep, drop := s.tab, s.persistent
	if remember {
		keep, drop = s.persistent, s.tab
	}
	if err := drop.Delete(key); err != nil {
		return err
	}
	return keep.Set(key, value)
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
