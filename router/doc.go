// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Online Voting API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health                      - Plain "OK"
	GET /api/auth/health             - Auth service
	GET /api/voting/health           - Voting service
	GET /api/system/health/database  - Database ping (503 when down)

Authentication (public):

	POST /api/auth/signup
	POST /api/auth/check-email
	POST /api/auth/login
	POST /api/auth/verify-otp
	POST /api/auth/verify-login-otp
	POST /api/auth/verify-password-reset-otp
	POST /api/auth/resend-otp
	POST /api/auth/forgot-password
	POST /api/auth/reset-password
	POST /api/auth/logout
	GET  /api/auth/test-otp            - Dev mode only

Voting:

	GET  /api/voting/status                      - Optional bearer token
	GET  /api/voting/constituencies
	GET  /api/voting/constituencies/{id}/parties
	POST /api/voting/cast-vote                   - Bearer token
	GET  /api/voting/receipt                     - Bearer token
	GET  /api/voting/election-info
	GET  /api/voting/results/{constituencyId}    - Sealed until voting closes

Any other path under /api/ answers 404 with a NOT_FOUND envelope.
*/
package router
