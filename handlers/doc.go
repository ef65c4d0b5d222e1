// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Online Voting API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: Signup, login, OTP verification, password reset
  - VotingHandler: Status, ballot listing, vote casting, receipts
  - ResultsHandler: Per-constituency tallies (sealed until voting closes)
  - SystemHandler: Database health

Handlers are created via constructor functions that accept *sql.DB and Config:

	authHandler := handlers.NewAuthHandler(db, cfg)

Every response is a models.Envelope. Failures carry a models.ErrorCode
so clients never need to parse message text.

# Sign-in Flow

Password checks and OTP checks are separate steps:

	POST /api/auth/signup            → Signup (issues SIGNUP code)
	POST /api/auth/verify-otp        → VerifyOTP(SIGNUP) (marks verified)
	POST /api/auth/login             → Login (issues LOGIN code)
	POST /api/auth/verify-login-otp  → VerifyOTP(LOGIN) (returns bearer token)

Failed passwords are counted per user; LockoutAttempts failures lock the
account for LockoutDuration. A wrong code costs one of OTPMaxAttempts
attempts, after which the code is burned.

# Password Reset

	POST /api/auth/forgot-password            → ForgotPassword
	POST /api/auth/verify-password-reset-otp  → VerifyOTP(PASSWORD_RESET) (returns resetToken)
	POST /api/auth/reset-password             → ResetPassword

The reset token is a JWT with the password_reset scope; it is not
accepted as a session token.

# Voting

	GET  /api/voting/constituencies            → Constituencies
	GET  /api/voting/constituencies/{id}/parties → Candidates
	POST /api/voting/cast-vote                 → CastVote (bearer token)
	GET  /api/voting/receipt                   → Receipt (bearer token)

One vote per user is enforced by a unique index on votes.user_id as well
as an explicit check. Client IPs are stored only as salted hashes.

# Development Mode

With DevMode set, issued codes are returned in responses and
GET /api/auth/test-otp exposes the newest active code.
*/
package handlers
