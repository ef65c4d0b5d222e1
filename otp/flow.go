// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/session"
)

// Purpose says which verification a code completes
type Purpose = models.OTPPurpose

const (
	PurposeSignup        = models.PurposeSignup
	PurposeLogin         = models.PurposeLogin
	PurposePasswordReset = models.PurposePasswordReset
)

var (
	ErrNoContext       = errors.New("no verification in progress for this purpose")
	ErrIncomplete      = errors.New("please enter the complete 6-digit verification code")
	ErrExpired         = errors.New("verification code has expired")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrCodeUsed        = errors.New("verification code has already been used")
	ErrTooManyAttempts = errors.New("too many failed attempts")
	ErrLockedOut       = errors.New("verification is temporarily disabled")
	ErrCooldown        = errors.New("please wait before requesting a new code")
	ErrClosed          = errors.New("verification flow is closed")
)

// ParsePurpose accepts wire names and the short forms signup, login and reset
func ParsePurpose(s string) (Purpose, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIGNUP":
		return PurposeSignup, nil
	case "LOGIN":
		return PurposeLogin, nil
	case "RESET", "PASSWORD_RESET", "PASSWORD-RESET":
		return PurposePasswordReset, nil
	}
	return "", fmt.Errorf("unknown verification purpose %q", s)
}

// Config holds the client-side timers
type Config struct {
	Expiry         time.Duration
	ResendCooldown time.Duration
	Lockout        time.Duration
	Logger         *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Expiry:         10 * time.Minute,
		ResendCooldown: 60 * time.Second,
		Lockout:        5 * time.Minute,
	}
}

// API is the part of the voting API the flow needs
type API interface {
	VerifyOTP(ctx context.Context, purpose models.OTPPurpose, email, code string) (models.VerifyOTPResponse, error)
	ResendOTP(ctx context.Context, email string, purpose models.OTPPurpose) (models.OTPIssued, error)
	TestOTP(ctx context.Context, email string, purpose models.OTPPurpose) (models.OTPIssued, error)
}

// Next is where the voter goes after a successful verification
type Next int

const (
	NextLogin Next = iota + 1
	NextVoting
	NextResetPassword
)

func (n Next) String() string {
	switch n {
	case NextLogin:
		return "login"
	case NextVoting:
		return "voting"
	case NextResetPassword:
		return "reset-password"
	default:
		return "unknown"
	}
}

// Result describes a successful verification
type Result struct {
	Purpose    Purpose
	Next       Next
	Message    string
	Profile    models.UserProfile
	ResetToken string
}

// Flow is one OTP page: a purpose, an email and the two countdowns
type Flow struct {
	mu          sync.Mutex
	api         API
	store       *session.Store
	purpose     Purpose
	email       string
	remember    bool
	cfg         Config
	scope       *Scope
	expiry      *Countdown
	resend      *Countdown
	lockedUntil time.Time
}

// NewFlow starts a verification for an explicit purpose. The expiry and
// resend countdowns start immediately; Close stops them.
func NewFlow(api API, store *session.Store, purpose Purpose, email string, cfg Config) (*Flow, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrNoContext, purpose)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNoContext
	}
	def := DefaultConfig()
	if cfg.Expiry <= 0 {
		cfg.Expiry = def.Expiry
	}
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = def.ResendCooldown
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = def.Lockout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	f := &Flow{
		api:     api,
		store:   store,
		purpose: purpose,
		email:   email,
		cfg:     cfg,
		scope:   NewScope(),
	}
	if p, err := store.Pending(); err == nil && p.Purpose == purpose && strings.EqualFold(p.Email, email) {
		f.remember = p.Remember
	}
	f.expiry = f.scope.Countdown(cfg.Expiry)
	f.resend = f.scope.Countdown(cfg.ResendCooldown)
	return f, nil
}

// ResolveEmail picks the email for a verification of purpose: the given
// one, else the pending context when it was started for the same purpose
func ResolveEmail(store *session.Store, purpose Purpose, email string) (string, error) {
	if email = strings.TrimSpace(email); email != "" {
		return email, nil
	}
	p, err := store.Pending()
	if err != nil || p.Purpose != purpose || p.Email == "" {
		return "", ErrNoContext
	}
	return p.Email, nil
}

func (f *Flow) Purpose() Purpose { return f.purpose }
func (f *Flow) Email() string    { return f.email }

// Scope owns the flow's timers
func (f *Flow) Scope() *Scope { return f.scope }

// Expiry counts down to code expiry
func (f *Flow) Expiry() *Countdown {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expiry
}

// ResendCountdown counts down to when Resend is allowed
func (f *Flow) ResendCountdown() *Countdown {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resend
}

// LockedFor returns the remaining lockout after too many attempts
func (f *Flow) LockedFor() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lockedForLocked()
}

func (f *Flow) lockedForLocked() time.Duration {
	d := time.Until(f.lockedUntil)
	if d < 0 {
		return 0
	}
	return d
}

// Close stops the countdowns
func (f *Flow) Close() {
	f.scope.Close()
}

// Verify submits code. Local checks (lockout, expiry, format) run before
// any request is made.
func (f *Flow) Verify(ctx context.Context, code string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scope.Closed() {
		return Result{}, ErrClosed
	}
	if f.lockedForLocked() > 0 {
		return Result{}, ErrLockedOut
	}
	if f.expiry.Expired() {
		return Result{}, ErrExpired
	}
	code = strings.TrimSpace(code)
	if !ValidCode(code) {
		return Result{}, ErrIncomplete
	}

	resp, err := f.api.VerifyOTP(ctx, f.purpose, f.email, code)
	if err != nil {
		return Result{}, f.mapVerifyError(err)
	}

	res := Result{Purpose: f.purpose, Profile: resp.UserProfile}
	switch f.purpose {
	case PurposeSignup:
		res.Next = NextLogin
		res.Message = "Your account has been verified successfully! You can now sign in."
	case PurposeLogin:
		if resp.Token == "" {
			return Result{}, &apiclient.Error{Kind: apiclient.KindInvalidResponse, Message: "Login verification returned no token"}
		}
		if err := f.store.SetToken(resp.Token, f.remember); err != nil {
			return Result{}, fmt.Errorf("failed to store session: %w", err)
		}
		if err := f.store.SetProfile(resp.UserProfile, f.remember); err != nil {
			return Result{}, fmt.Errorf("failed to store profile: %w", err)
		}
		res.Next = NextVoting
		res.Message = "Login verified successfully!"
	case PurposePasswordReset:
		res.Next = NextResetPassword
		res.ResetToken = resp.ResetToken
		res.Message = "Code verified. Choose a new password."
	}

	if err := f.store.ClearPending(); err != nil {
		f.cfg.Logger.Warn("failed to clear pending verification", "purpose", f.purpose, "error", err)
	}
	f.cacheDevCode("")
	f.scope.Close()
	return res, nil
}

func (f *Flow) mapVerifyError(err error) error {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case models.CodeInvalidOTP:
		return fmt.Errorf("%w: %s", ErrInvalidCode, apiErr.Message)
	case models.CodeOTPExpired:
		f.expiry.Expire()
		return fmt.Errorf("%w: %s", ErrExpired, apiErr.Message)
	case models.CodeOTPUsed:
		return fmt.Errorf("%w: %s", ErrCodeUsed, apiErr.Message)
	case models.CodeTooManyAttempts:
		f.lockedUntil = time.Now().Add(f.cfg.Lockout)
		return fmt.Errorf("%w: %s", ErrTooManyAttempts, apiErr.Message)
	}
	return err
}

// Resend asks for a new code once the cooldown has passed, then restarts
// both countdowns
func (f *Flow) Resend(ctx context.Context) (models.OTPIssued, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scope.Closed() {
		return models.OTPIssued{}, ErrClosed
	}
	if f.lockedForLocked() > 0 {
		return models.OTPIssued{}, ErrLockedOut
	}
	if !f.resend.Expired() {
		return models.OTPIssued{}, fmt.Errorf("%w (%s)", ErrCooldown, FormatRemaining(f.resend.Remaining()))
	}

	issued, err := f.api.ResendOTP(ctx, f.email, f.purpose)
	if err != nil {
		if apiclient.IsCode(err, models.CodeOTPCooldown) {
			return models.OTPIssued{}, fmt.Errorf("%w: %v", ErrCooldown, err)
		}
		return models.OTPIssued{}, err
	}

	f.scope.Release(f.expiry)
	f.scope.Release(f.resend)
	f.expiry = f.scope.Countdown(f.cfg.Expiry)
	f.resend = f.scope.Countdown(f.cfg.ResendCooldown)
	if issued.OTPCode != "" {
		f.cacheDevCode(issued.OTPCode)
	}
	return issued, nil
}

// DevCode asks a development server for the active code and caches it
func (f *Flow) DevCode(ctx context.Context) (string, error) {
	issued, err := f.api.TestOTP(ctx, f.email, f.purpose)
	if err != nil {
		return "", err
	}
	if issued.OTPCode != "" {
		f.cacheDevCode(issued.OTPCode)
	}
	return issued.OTPCode, nil
}

// cacheDevCode stores code, or clears the cache when it is empty
func (f *Flow) cacheDevCode(code string) {
	if err := f.store.SetDevOTP(code); err != nil {
		f.cfg.Logger.Warn("failed to cache development code", "error", err)
	}
}
