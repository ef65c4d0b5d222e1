// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/session"
	"github.com/VENUHARGI/OnlineVoting/validate"
)

var (
	ErrAccountLocked = errors.New("account is temporarily locked after too many failed attempts")
	ErrNotVerified   = errors.New("account is not verified; enter the code sent at signup")
	ErrNoResetToken  = errors.New("verify the reset code before choosing a new password")
)

// API is the part of the voting API the auth pages use
type API interface {
	Login(ctx context.Context, req models.LoginRequest) (apiclient.LoginReply, error)
	Signup(ctx context.Context, req models.SignupRequest) (models.SignupResponse, error)
	ForgotPassword(ctx context.Context, email string) (models.OTPIssued, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	CheckEmail(ctx context.Context, email string) (bool, error)
	Logout(ctx context.Context) error
}

// Flow runs the sign-in, signup and password reset pages
type Flow struct {
	api    API
	store  *session.Store
	logger *slog.Logger
}

func New(api API, store *session.Store, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{api: api, store: store, logger: logger}
}

// LoginResult tells the caller where to go after Login
type LoginResult struct {
	// OTPRequired means a code was sent and the pending context stored;
	// continue with an otp.Flow for PurposeLogin
	OTPRequired bool
	Email       string
	UserID      int64
	Profile     models.UserProfile
	DevOTP      string
}

// Login checks the form, signs in and records what comes next
func (f *Flow) Login(ctx context.Context, email, password string, remember bool) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if err := validate.Login(email, password); err != nil {
		return LoginResult{}, err
	}

	reply, err := f.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return LoginResult{}, f.loginError(err, email)
	}

	if reply.RequiresOTP {
		if reply.Email != "" {
			email = reply.Email
		}
		if err := f.store.SetPending(session.Pending{
			Purpose:  models.PurposeLogin,
			Email:    email,
			UserID:   reply.UserID,
			Remember: remember,
		}); err != nil {
			return LoginResult{}, fmt.Errorf("failed to store verification context: %w", err)
		}
		f.cacheDevOTP(reply.OTPCode)
		f.logger.Info("login code sent", "email", email, "user_id", reply.UserID)
		return LoginResult{OTPRequired: true, Email: email, UserID: reply.UserID, DevOTP: reply.OTPCode}, nil
	}

	if reply.Token == "" {
		return LoginResult{}, &apiclient.Error{Kind: apiclient.KindInvalidResponse, Message: "Login returned neither a code challenge nor a token"}
	}
	profile := reply.Profile()
	if err := f.store.SetToken(reply.Token, remember); err != nil {
		return LoginResult{}, fmt.Errorf("failed to store session: %w", err)
	}
	if err := f.store.SetProfile(profile, remember); err != nil {
		return LoginResult{}, fmt.Errorf("failed to store profile: %w", err)
	}
	return LoginResult{Email: profile.Email, UserID: profile.UserID, Profile: profile}, nil
}

func (f *Flow) loginError(err error, email string) error {
	switch apiclient.CodeOf(err) {
	case models.CodeInvalidCredentials:
		errs := &validate.Errors{}
		errs.Add(validate.FieldEmail, "Invalid email or password")
		errs.Add(validate.FieldPassword, "Invalid email or password")
		return errs
	case models.CodeAccountLocked:
		return fmt.Errorf("%w: %s", ErrAccountLocked, messageOf(err))
	case models.CodeAccountNotVerified:
		if serr := f.store.SetPending(session.Pending{Purpose: models.PurposeSignup, Email: email}); serr != nil {
			return serr
		}
		return ErrNotVerified
	case models.CodeValidation:
		return fieldErrors(err)
	}
	return err
}

// SignupResult is the outcome of a successful signup
type SignupResult struct {
	UserID int64
	Email  string
	DevOTP string
}

// Signup checks the whole form, creates the account and stores the
// pending signup verification
func (f *Flow) Signup(ctx context.Context, form validate.SignupForm) (SignupResult, error) {
	if err := validate.Signup(form); err != nil {
		return SignupResult{}, err
	}

	req := form.Request()
	resp, err := f.api.Signup(ctx, req)
	if err != nil {
		switch apiclient.CodeOf(err) {
		case models.CodeValidation:
			return SignupResult{}, fieldErrors(err)
		case models.CodeAlreadyExists:
			errs := &validate.Errors{}
			errs.Add(validate.FieldEmail, messageOf(err))
			return SignupResult{}, errs
		}
		return SignupResult{}, err
	}

	email := resp.Email
	if email == "" {
		email = req.Email
	}
	if err := f.store.SetPending(session.Pending{Purpose: models.PurposeSignup, Email: email, UserID: resp.UserID}); err != nil {
		return SignupResult{}, fmt.Errorf("failed to store verification context: %w", err)
	}
	f.cacheDevOTP(resp.OTPCode)
	f.logger.Info("account created", "email", email, "user_id", resp.UserID)
	return SignupResult{UserID: resp.UserID, Email: email, DevOTP: resp.OTPCode}, nil
}

// ForgotPassword requests a reset code and stores the pending reset
func (f *Flow) ForgotPassword(ctx context.Context, email string) (models.OTPIssued, error) {
	email = strings.TrimSpace(email)
	if err := validate.ForgotPassword(email); err != nil {
		return models.OTPIssued{}, err
	}

	issued, err := f.api.ForgotPassword(ctx, email)
	if err != nil {
		if apiclient.IsCode(err, models.CodeNotFound) {
			errs := &validate.Errors{}
			errs.Add(validate.FieldEmail, "No account found with this email address")
			return models.OTPIssued{}, errs
		}
		return models.OTPIssued{}, err
	}

	if err := f.store.SetPending(session.Pending{Purpose: models.PurposePasswordReset, Email: email}); err != nil {
		return models.OTPIssued{}, fmt.Errorf("failed to store verification context: %w", err)
	}
	f.cacheDevOTP(issued.OTPCode)
	return issued, nil
}

// ResetPassword sets a new password with the token from a verified reset code
func (f *Flow) ResetPassword(ctx context.Context, resetToken, password, confirm string) error {
	if resetToken == "" {
		return ErrNoResetToken
	}
	if err := validate.NewPassword(password, confirm); err != nil {
		return err
	}
	if err := f.api.ResetPassword(ctx, resetToken, password); err != nil {
		switch apiclient.CodeOf(err) {
		case models.CodeValidation:
			return fieldErrors(err)
		case models.CodeUnauthorized:
			return fmt.Errorf("%w: %s", ErrNoResetToken, messageOf(err))
		}
		return err
	}
	if err := f.store.ClearPending(); err != nil {
		f.logger.Warn("failed to clear pending verification", "error", err)
	}
	return nil
}

// EmailTaken is a best-effort availability check for the signup form.
// Failures report false so the form is never blocked by it.
func (f *Flow) EmailTaken(ctx context.Context, email string) bool {
	email = strings.TrimSpace(email)
	if !validate.Email(email) {
		return false
	}
	exists, err := f.api.CheckEmail(ctx, email)
	if err != nil {
		f.logger.Debug("email check failed", "email", email, "error", err)
		return false
	}
	return exists
}

// Logout tells the server and clears local credentials. The local clear
// happens even when the request fails.
func (f *Flow) Logout(ctx context.Context) error {
	if f.store.Token() != "" {
		if err := f.api.Logout(ctx); err != nil {
			f.logger.Warn("logout request failed", "error", err)
		}
	}
	return f.store.Clear()
}

func (f *Flow) cacheDevOTP(code string) {
	if code == "" {
		return
	}
	if err := f.store.SetDevOTP(code); err != nil {
		f.logger.Warn("failed to cache development code", "error", err)
	}
}

func messageOf(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// fieldErrors turns a server VALIDATION_ERROR into form errors
func fieldErrors(err error) error {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err
	}
	names := make([]string, 0, len(apiErr.Fields))
	for name := range apiErr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	errs := &validate.Errors{}
	for _, name := range names {
		errs.Add(name, apiErr.Fields[name])
	}
	return errs
}
