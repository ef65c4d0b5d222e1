// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Online Voting API server.

Voters sign up, confirm their email with a one-time code, sign in with a
password plus a second code, and cast exactly one vote in their
constituency. The voter-facing client lives in cmd/ballot.

# Starting the Server

The server reads environment variables (including a .env file) or CLI
flags:

	TOKEN_SECRET=... IP_HASH_SALT=... go run . -seed -dev

Or against Postgres:

	go run . -t postgres -d "postgres://..."

# Configuration

Required settings:

  - TOKEN_SECRET (--token-secret): JWT signing secret
  - IP_HASH_SALT (--ip-salt): Salt for hashing voter IP addresses

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: online-voting.db)
  - OTP_EXPIRY_MINUTES, OTP_MAX_ATTEMPTS
  - LOCKOUT_ATTEMPTS, LOCKOUT_MINUTES, TOKEN_TTL_MINUTES
  - VOTING_OPENS, VOTING_CLOSES: RFC3339 voting window
  - DEV_MODE (-dev): Return OTP codes in responses
  - SEED (-seed): Insert demo constituencies, parties and candidates

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, voting, results, system)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON envelopes, bearer auth
  - models: Request/response types and error codes
  - auth: Password hashing, OTP codes, JWTs
  - db: Connection, schema creation and seed data
  - scheduler: Cron housekeeping
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
