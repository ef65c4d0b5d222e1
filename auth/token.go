// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "online-voting"

// Token scopes. Session tokens carry no scope.
const (
	ScopeSession       = ""
	ScopePasswordReset = "password_reset"
)

// Claims are the JWT claims of a voter token.
// Subject holds the numeric user id.
type Claims struct {
	Email string `json:"email"`
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the user id carried in the subject claim
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// IssueToken signs an HS256 session token for the user valid for ttl
func IssueToken(userID int64, email, secret string, ttl time.Duration) (string, time.Time, error) {
	return IssueScopedToken(userID, email, ScopeSession, secret, ttl)
}

// IssueScopedToken signs a token restricted to scope
func IssueScopedToken(userID int64, email, scope, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := &Claims{
		Email: email,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    tokenIssuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ParseToken verifies the signature and expiry of a token
func ParseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, err
		}
		return nil, ErrInvalidToken
	}
	if c, ok := token.Claims.(*Claims); ok && token.Valid {
		return c, nil
	}
	return nil, ErrInvalidToken
}
