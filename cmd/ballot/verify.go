// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/otp"
)

// runVerify reads codes until one is accepted. The expiry countdown runs
// while waiting: urgency changes and expiry are announced as they happen.
func (a *app) runVerify(ctx context.Context, purpose otp.Purpose, email string) (otp.Result, error) {
	flow, err := otp.NewFlow(a.api, a.store, purpose, email, a.otpConfig())
	if err != nil {
		return otp.Result{}, err
	}
	defer flow.Close()

	if code := a.store.DevOTP(); code != "" {
		a.printf("Development code: %s\n", code)
	}
	a.printf("Enter the 6-digit code sent to %s (expires in %s).\n", email, flow.Expiry().Format())
	a.printf("Type r to resend, t for time left, d to use the development code.\n")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	expired := flow.Expiry().Done()
	urgency := flow.Expiry().Urgency()

	a.printf("Code: ")
	for {
		select {
		case <-ctx.Done():
			return otp.Result{}, ctx.Err()

		case <-expired:
			expired = nil
			a.printf("\nThe code has expired. Type r to request a new one.\nCode: ")

		case <-ticker.C:
			if u := flow.Expiry().Urgency(); u != urgency && !flow.Expiry().Expired() {
				urgency = u
				a.printf("\n%s left before the code expires.\nCode: ", flow.Expiry().Format())
			}

		case res := <-a.lines.next():
			a.lines.pending = nil
			if res.err != nil {
				return otp.Result{}, res.err
			}

			line := res.line
			switch strings.ToLower(line) {
			case "":
				a.printf("Code: ")
				continue
			case "t":
				a.printf("%s left.\nCode: ", flow.Expiry().Format())
				continue
			case "r":
				if _, err := flow.Resend(ctx); err != nil {
					a.printf("%s\nCode: ", resendMessage(err, flow))
					continue
				}
				expired = flow.Expiry().Done()
				urgency = flow.Expiry().Urgency()
				a.printf("A new code was sent to %s.\n", email)
				if code := a.store.DevOTP(); code != "" {
					a.printf("Development code: %s\n", code)
				}
				a.printf("Code: ")
				continue
			case "d":
				code, err := flow.DevCode(ctx)
				if err != nil || code == "" {
					a.printf("No development code available.\nCode: ")
					continue
				}
				line = code
			}

			var entry otp.Entry
			if !entry.Paste(line) {
				a.printf("Please enter the complete 6-digit verification code.\nCode: ")
				continue
			}
			result, err := flow.Verify(ctx, entry.Code())
			if err == nil {
				a.printf("%s\n", result.Message)
				return result, nil
			}
			if msg, retry := verifyMessage(err, flow); retry {
				a.printf("%s\nCode: ", msg)
				continue
			}
			return otp.Result{}, err
		}
	}
}

// verifyMessage describes a failed attempt; retry is false when the
// error should end the command
func verifyMessage(err error, flow *otp.Flow) (string, bool) {
	switch {
	case errors.Is(err, otp.ErrIncomplete):
		return "Please enter the complete 6-digit verification code.", true
	case errors.Is(err, otp.ErrInvalidCode):
		return "Invalid verification code. Please try again.", true
	case errors.Is(err, otp.ErrExpired):
		return "The code has expired. Type r to request a new one.", true
	case errors.Is(err, otp.ErrCodeUsed):
		return "This code was already used. Type r to request a new one.", true
	case errors.Is(err, otp.ErrTooManyAttempts), errors.Is(err, otp.ErrLockedOut):
		return "Too many failed attempts. Try again in " + otp.FormatRemaining(flow.LockedFor()) + ".", true
	case apiclient.KindOf(err) == apiclient.KindTimeout, apiclient.KindOf(err) == apiclient.KindNetwork:
		return err.Error(), true
	}
	return "", false
}

func resendMessage(err error, flow *otp.Flow) string {
	switch {
	case errors.Is(err, otp.ErrCooldown):
		return "Please wait " + flow.ResendCountdown().Format() + " before requesting a new code."
	case errors.Is(err, otp.ErrLockedOut):
		return "Too many failed attempts. Try again in " + otp.FormatRemaining(flow.LockedFor()) + "."
	}
	return "Could not send a new code: " + err.Error()
}
