// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/auth/health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms).

# Envelope Helpers

Every response is a models.Envelope:

	middleware.SuccessResponse(w, http.StatusOK, "Constituencies loaded", list)
	middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyVoted, "You have already voted")

Parse JSON request bodies (bounded to 64 KiB):

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

# Bearer Authentication

RequireAuth verifies the JWT in the Authorization header and stores its
claims in the request context:

	mux.HandleFunc("POST /api/voting/cast-vote",
		middleware.WithLogging(middleware.RequireAuth(cfg.TokenSecret, h.CastVote)))

	claims, _ := middleware.ClaimsFromContext(r.Context())

BearerClaims parses an optional token for endpoints that work with or
without a session.

# CORS Middleware

	server := http.Server{Handler: middleware.CORS(mux)}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP. Votes store only auth.HashIP of it.
*/
package middleware
