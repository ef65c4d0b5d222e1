// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/VENUHARGI/OnlineVoting/auth"
	"github.com/VENUHARGI/OnlineVoting/models"
)

type contextKey int

const claimsKey contextKey = iota

var ErrNoBearer = errors.New("missing bearer token")

// BearerClaims parses the session token in the Authorization header, if any
func BearerClaims(r *http.Request, secret string) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, ErrNoBearer
	}
	claims, err := auth.ParseToken(strings.TrimSpace(token), secret)
	if err != nil {
		return nil, err
	}
	if claims.Scope != auth.ScopeSession {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid bearer token and stores
// the claims in the request context
func RequireAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := BearerClaims(r, secret)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the claims stored by RequireAuth
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
