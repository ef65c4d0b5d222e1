// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the server's credential primitives.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, attempt) // ErrInvalidPassword on mismatch

# Session Tokens

After a successful login OTP the server issues an HS256 JWT whose subject
is the numeric user id:

	token, expiresAt, err := auth.IssueToken(userID, email, secret, ttl)
	claims, err := auth.ParseToken(token, secret)
	userID, err := claims.UserID()

ParseToken returns jwt.ErrTokenExpired for expired tokens and
ErrInvalidToken for everything else. Each token carries a uuid jti.

# One-Time Codes

	code, err := auth.GenerateOTPCode() // "004217"

Codes are OTPLength digits drawn from crypto/rand.

# IP Hashing

Votes record a privacy-preserving client fingerprint:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
