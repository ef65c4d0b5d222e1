// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Command ballot is the voter client for the online voting API.

	ballot signup
	ballot login --remember
	ballot vote
	ballot receipt --save ~/Documents
	ballot doctor

Sign-in state lives in the state directory: session.json survives
restarts (login --remember), tab-<ppid>.json lasts as long as the parent
shell.

# Configuration

Settings come from BALLOT_* environment variables or config.yaml in the
state directory:

	BALLOT_API_URL           API base URL (http://localhost:3318/api)
	BALLOT_TIMEOUT           per-request timeout (30s)
	BALLOT_HEALTH_TIMEOUT    doctor probe timeout (5s)
	BALLOT_OTP_EXPIRY        code lifetime shown while verifying (10m)
	BALLOT_RESEND_COOLDOWN   wait between resends (60s)
	BALLOT_LOCKOUT_COOLDOWN  wait after too many attempts (5m)
	BALLOT_STATE_DIR         session files and config.yaml
	BALLOT_LOG_LEVEL         debug, info, warn or error (warn)

# Verification

While a code is requested, r resends it, t shows the time left and d
uses the development code when the server runs in dev mode.
*/
package main
