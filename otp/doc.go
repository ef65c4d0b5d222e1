// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package otp drives the one-time code step shared by signup, login and
password reset.

# Entry

Entry models the six single-digit inputs: typing advances focus,
backspace on an empty slot steps back, and pasting fills all six from
the first six digits found. Input reports completion when the last slot
is filled, which is the auto-submit trigger.

# Countdowns

A Scope owns every Countdown a page starts. Closing the scope (leaving
the page, a successful verification) stops them all. Two run per flow:

  - expiry: 10 minutes, shown as m:ss with Urgency warning at 3:00 and
    critical at 1:00
  - resend: 60 seconds before Resend is allowed

# Flow

Flow carries an explicit Purpose and email. Verify runs local guards
first (lockout, expiry, six digits) and only then calls the API. Server
rejections map to ErrInvalidCode, ErrExpired, ErrCodeUsed and
ErrTooManyAttempts; the last one locks the form for five minutes.

On success:

  - SIGNUP: pending context cleared, Next is NextLogin
  - LOGIN: token and profile stored in the scope chosen at login, Next is NextVoting
  - PASSWORD_RESET: Result.ResetToken set, Next is NextResetPassword
*/
package otp
