// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/VENUHARGI/OnlineVoting/authflow"
	"github.com/VENUHARGI/OnlineVoting/otp"
	"github.com/VENUHARGI/OnlineVoting/session"
	"github.com/VENUHARGI/OnlineVoting/validate"
)

func (a *app) signup(ctx context.Context, args []string) error {
	fs := newFlagSet("signup", a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var form validate.SignupForm
	var err error
	if form.FirstName, err = a.prompt(ctx, "First name: "); err != nil {
		return err
	}
	if form.LastName, err = a.prompt(ctx, "Last name: "); err != nil {
		return err
	}
	if form.Email, err = a.prompt(ctx, "Email: "); err != nil {
		return err
	}
	if a.auth.EmailTaken(ctx, form.Email) {
		a.printf("An account with %s already exists. Try 'ballot login'.\n", form.Email)
		return errSilent
	}
	if form.Phone, err = a.prompt(ctx, "Phone (optional): "); err != nil {
		return err
	}
	if form.Password, err = a.secret("Password: "); err != nil {
		return err
	}
	st := validate.PasswordStrength(form.Password)
	a.printf("Password strength: %s\n", st.Label)
	if !validate.Acceptable(st.Score) {
		a.printf("Missing: %s\n", st.Feedback())
	}
	if form.ConfirmPassword, err = a.secret("Confirm password: "); err != nil {
		return err
	}
	if form.AcceptTerms, err = a.confirm(ctx, "Accept the terms and conditions?"); err != nil {
		return err
	}

	res, err := a.auth.Signup(ctx, form)
	if err != nil {
		return err
	}
	a.printf("Account created. A verification code was sent to %s.\n", res.Email)
	_, err = a.runVerify(ctx, otp.PurposeSignup, res.Email)
	return err
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login", a.out)
	remember := fs.Bool("remember", false, "Keep the session after this terminal closes")
	email := fs.String("email", "", "Account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = a.prompt(ctx, "Email: "); err != nil {
			return err
		}
	}
	password, err := a.secret("Password: ")
	if err != nil {
		return err
	}

	res, err := a.auth.Login(ctx, *email, password, *remember)
	switch {
	case errors.Is(err, authflow.ErrNotVerified):
		a.printf("Your account is not verified yet.\n")
		if _, err := a.runVerify(ctx, otp.PurposeSignup, *email); err != nil {
			return err
		}
		a.printf("Run 'ballot login' again to sign in.\n")
		return nil
	case errors.Is(err, authflow.ErrAccountLocked):
		a.printf("%v\n", err)
		return errSilent
	case err != nil:
		return err
	}

	if !res.OTPRequired {
		a.printf("Signed in as %s.\n", res.Profile.FullName)
		return nil
	}
	a.printf("A sign-in code was sent to %s.\n", res.Email)
	_, err = a.runVerify(ctx, otp.PurposeLogin, res.Email)
	return err
}

func (a *app) verify(ctx context.Context, args []string) error {
	fs := newFlagSet("verify", a.out)
	purposeFlag := fs.String("purpose", "", "signup, login or reset")
	email := fs.String("email", "", "Account email (defaults to the pending verification)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	purpose, err := otp.ParsePurpose(*purposeFlag)
	if err != nil {
		return err
	}
	addr, err := otp.ResolveEmail(a.store, purpose, *email)
	if err != nil {
		return fmt.Errorf("%w: pass --email", err)
	}

	res, err := a.runVerify(ctx, purpose, addr)
	if err != nil {
		return err
	}
	if purpose == otp.PurposePasswordReset {
		return a.choosePassword(ctx, res.ResetToken)
	}
	return nil
}

func (a *app) resend(ctx context.Context, args []string) error {
	fs := newFlagSet("resend", a.out)
	purposeFlag := fs.String("purpose", "", "signup, login or reset")
	email := fs.String("email", "", "Account email (defaults to the pending verification)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	purpose, err := otp.ParsePurpose(*purposeFlag)
	if err != nil {
		return err
	}
	addr, err := otp.ResolveEmail(a.store, purpose, *email)
	if err != nil {
		return fmt.Errorf("%w: pass --email", err)
	}

	issued, err := a.api.ResendOTP(ctx, addr, purpose)
	if err != nil {
		return err
	}
	if issued.OTPCode != "" {
		if err := a.store.SetDevOTP(issued.OTPCode); err != nil {
			a.logger.Warn("failed to cache development code", "error", err)
		}
	}
	a.printf("A new code was sent to %s.\n", addr)
	return nil
}

func (a *app) forgot(ctx context.Context, args []string) error {
	fs := newFlagSet("forgot", a.out)
	email := fs.String("email", "", "Account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = a.prompt(ctx, "Email: "); err != nil {
			return err
		}
	}
	if _, err := a.auth.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	a.printf("A reset code was sent to %s.\n", *email)

	res, err := a.runVerify(ctx, otp.PurposePasswordReset, *email)
	if err != nil {
		return err
	}
	return a.choosePassword(ctx, res.ResetToken)
}

func (a *app) choosePassword(ctx context.Context, resetToken string) error {
	password, err := a.secret("New password: ")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm new password: ")
	if err != nil {
		return err
	}
	if err := a.auth.ResetPassword(ctx, resetToken, password, confirm); err != nil {
		return err
	}
	a.printf("Password updated. Run 'ballot login' to sign in.\n")
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.printf("Signed out.\n")
	return nil
}

// requireSession returns the signed-in user id
func (a *app) requireSession() (int64, error) {
	if a.store.Token() == "" {
		return 0, session.ErrNoToken
	}
	if !a.store.IsAuthenticated() {
		return 0, session.ErrExpired
	}
	id, ok := a.store.UserID()
	if !ok {
		return 0, session.ErrNoToken
	}
	return id, nil
}
