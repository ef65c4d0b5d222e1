// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package authflow implements the sign-in, signup and password reset pages
on top of apiclient and session.

Each operation validates its form first and returns *validate.Errors for
field problems, so callers can show messages next to the inputs. Server
rejections are told apart by error code:

	INVALID_CREDENTIALS   email and password field errors
	ACCOUNT_LOCKED        ErrAccountLocked
	ACCOUNT_NOT_VERIFIED  ErrNotVerified, pending signup verification stored
	ALREADY_EXISTS        email field error with the server message
	NOT_FOUND             email field error (forgot password)

A login that needs a code stores a pending LOGIN verification, including
whether the voter asked to be remembered, and returns OTPRequired. The
otp package picks it up from there.
*/
package authflow
