// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration
for the API server.

# Configuration

ParseFlags returns a Config struct with all settings:

	cliparse.LoadDotEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv loads the nearest .env file with godotenv. Variables already
present in the environment are not overwritten.

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type (sqlite or postgres)
	-token-secret  JWT signing secret
	-ip-salt       IP hash salt
	-dev           Development mode (OTP codes in responses, /auth/test-otp)
	-seed          Seed demo constituencies, parties and candidates

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p (default 3318)
	DATABASE_URL       → -d (default online-voting.db for sqlite)
	DATABASE_TYPE      → -t (default sqlite)
	TOKEN_SECRET       → -token-secret
	IP_HASH_SALT       → -ip-salt
	DEV_MODE           → -dev
	SEED               → -seed

Environment only:

	OTP_EXPIRY_MINUTES  (10)
	OTP_MAX_ATTEMPTS    (3)
	LOCKOUT_ATTEMPTS    (5)
	LOCKOUT_MINUTES     (30)
	TOKEN_TTL_MINUTES   (60)
	VOTING_OPENS        RFC3339, optional
	VOTING_CLOSES       RFC3339, optional

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - TOKEN_SECRET or IP_HASH_SALT is missing
  - DATABASE_URL is missing for postgres
  - a numeric or time variable does not parse
  - the voting window closes before it opens
*/
package cliparse
