// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package clientconfig loads the voter CLI configuration with viper.

Sources, lowest precedence first: built-in defaults, config.yaml in the
state directory, BALLOT_* environment variables.

	api_url           http://localhost:3318/api
	timeout           30s
	health_timeout    5s
	otp_expiry        10m
	resend_cooldown   60s
	lockout_cooldown  5m
	state_dir         $XDG_CONFIG_HOME/ballot
	log_level         warn
*/
package clientconfig
