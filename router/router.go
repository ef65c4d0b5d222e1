// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/VENUHARGI/OnlineVoting/cliparse"
	"github.com/VENUHARGI/OnlineVoting/handlers"
	"github.com/VENUHARGI/OnlineVoting/middleware"
	"github.com/VENUHARGI/OnlineVoting/models"
)

// Banner is the body of GET /
const Banner = "Online Voting API v1"

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	systemHandler := handlers.NewSystemHandler(db)

	requireAuth := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(cfg.TokenSecret, h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication (public)
	mux.HandleFunc("POST /api/auth/signup", middleware.WithLogging(authHandler.Signup))
	mux.HandleFunc("POST /api/auth/check-email", middleware.WithLogging(authHandler.CheckEmail))
	mux.HandleFunc("POST /api/auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /api/auth/verify-otp", middleware.WithLogging(authHandler.VerifyOTP(models.PurposeSignup)))
	mux.HandleFunc("POST /api/auth/verify-login-otp", middleware.WithLogging(authHandler.VerifyOTP(models.PurposeLogin)))
	mux.HandleFunc("POST /api/auth/verify-password-reset-otp", middleware.WithLogging(authHandler.VerifyOTP(models.PurposePasswordReset)))
	mux.HandleFunc("POST /api/auth/resend-otp", middleware.WithLogging(authHandler.ResendOTP))
	mux.HandleFunc("POST /api/auth/forgot-password", middleware.WithLogging(authHandler.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", middleware.WithLogging(authHandler.ResetPassword))
	mux.HandleFunc("POST /api/auth/logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("GET /api/auth/test-otp", middleware.WithLogging(authHandler.TestOTP))
	mux.HandleFunc("GET /api/auth/health", middleware.WithLogging(authHandler.Health))

	// Voting
	mux.HandleFunc("GET /api/voting/status", middleware.WithLogging(votingHandler.Status))
	mux.HandleFunc("GET /api/voting/constituencies", middleware.WithLogging(votingHandler.Constituencies))
	mux.HandleFunc("GET /api/voting/constituencies/{id}/parties", middleware.WithLogging(votingHandler.Candidates))
	mux.HandleFunc("POST /api/voting/cast-vote", middleware.WithLogging(requireAuth(votingHandler.CastVote)))
	mux.HandleFunc("GET /api/voting/receipt", middleware.WithLogging(requireAuth(votingHandler.Receipt)))
	mux.HandleFunc("GET /api/voting/election-info", middleware.WithLogging(votingHandler.ElectionInfo))
	mux.HandleFunc("GET /api/voting/results/{constituencyId}", middleware.WithLogging(resultsHandler.Results))
	mux.HandleFunc("GET /api/voting/health", middleware.WithLogging(votingHandler.Health))

	// System
	mux.HandleFunc("GET /api/system/health/database", middleware.WithLogging(systemHandler.DatabaseHealth))

	// Unknown API paths answer with an envelope rather than the banner
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Endpoint not found")
	})

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
