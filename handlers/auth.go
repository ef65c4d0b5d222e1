// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/VENUHARGI/OnlineVoting/auth"
	"github.com/VENUHARGI/OnlineVoting/cliparse"
	"github.com/VENUHARGI/OnlineVoting/middleware"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/validate"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	if err := validate.SignupRequest(req); err != nil {
		validationError(w, err)
		return
	}

	email := normalizeEmail(req.Email)
	phone := normalizePhone(req.PhoneNumber)

	var count int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&count); err != nil {
		slog.Error("failed to check email", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if count > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyExists, "An account with this email already exists")
		return
	}

	if phone != "" {
		if err := h.db.QueryRow(`SELECT COUNT(*) FROM users WHERE phone_number = $1`, phone).Scan(&count); err != nil {
			slog.Error("failed to check phone number", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		if count > 0 {
			middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyExists, "An account with this phone number already exists")
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create account")
		return
	}

	var userID int64
	err = h.db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, phone_number, password_hash, is_verified, failed_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, 0, $6)
		RETURNING id
	`, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), email,
		sql.NullString{String: phone, Valid: phone != ""}, hash, time.Now().UTC()).Scan(&userID)
	if err != nil {
		// Lost a race with a concurrent signup for the same email or phone
		if h.userExists(email) {
			middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyExists, "An account with this email already exists")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create account")
		return
	}

	issued, err := issueOTP(h.db, h.cfg, email, models.PurposeSignup)
	if err != nil {
		slog.Error("failed to issue signup otp", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to send verification code")
		return
	}

	slog.Info("user registered", "user_id", userID)

	middleware.SuccessResponse(w, http.StatusCreated, "Account created. Enter the verification code sent to your email.", models.SignupResponse{
		UserID:  userID,
		Email:   email,
		OTPCode: issued.OTPCode,
	})
}

// CheckEmail handles POST /api/auth/check-email
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, "", models.CheckEmailResponse{
		Exists: h.userExists(normalizeEmail(req.Email)),
	})
}

// Login handles POST /api/auth/login
// Checks the password and sends a LOGIN code; the session token comes from verify-login-otp
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}

	email := normalizeEmail(req.Email)
	u, err := findUserByEmail(h.db, email)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	now := time.Now().UTC()
	if u.lockedUntil.Valid && now.Before(u.lockedUntil.Time) {
		minutes := int(math.Ceil(u.lockedUntil.Time.Sub(now).Minutes()))
		middleware.ErrorResponse(w, http.StatusLocked, models.CodeAccountLocked,
			fmt.Sprintf("Account locked. Try again in %d minute(s).", minutes))
		return
	}

	if err := auth.CheckPassword(u.passwordHash, req.Password); err != nil {
		h.recordFailedLogin(w, u, now)
		return
	}

	if !u.verified {
		// Fresh code so the voter can finish signup from the OTP page
		if _, err := issueOTP(h.db, h.cfg, email, models.PurposeSignup); err != nil {
			slog.Error("failed to issue signup otp", "error", err, "user_id", u.id)
		}
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeAccountNotVerified, "Account not verified. Please verify your email first.")
		return
	}

	if _, err := h.db.Exec(`UPDATE users SET failed_attempts = 0, locked_until = NULL WHERE id = $1`, u.id); err != nil {
		slog.Error("failed to reset login attempts", "error", err, "user_id", u.id)
	}

	issued, err := issueOTP(h.db, h.cfg, email, models.PurposeLogin)
	if err != nil {
		slog.Error("failed to issue login otp", "error", err, "user_id", u.id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to send verification code")
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, "Verification code sent to your email", models.LoginResponse{
		RequiresOTP: true,
		Email:       email,
		UserID:      u.id,
		FirstName:   u.firstName,
		LastName:    u.lastName,
		OTPCode:     issued.OTPCode,
	})
}

// recordFailedLogin counts a wrong password and locks the account at the threshold
func (h *AuthHandler) recordFailedLogin(w http.ResponseWriter, u userRecord, now time.Time) {
	var failed int
	err := h.db.QueryRow(`
		UPDATE users SET failed_attempts = failed_attempts + 1
		WHERE id = $1 AND (locked_until IS NULL OR locked_until <= $2)
		RETURNING failed_attempts
	`, u.id, now).Scan(&failed)
	if err == sql.ErrNoRows {
		// Locked by a concurrent attempt after our read
		middleware.ErrorResponse(w, http.StatusLocked, models.CodeAccountLocked,
			fmt.Sprintf("Account locked due to too many failed attempts. Try again in %d minutes.", int(h.cfg.LockoutDuration.Minutes())))
		return
	}
	if err != nil {
		slog.Error("failed to record login attempt", "error", err, "user_id", u.id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if failed >= h.cfg.LockoutAttempts {
		lockedUntil := now.Add(h.cfg.LockoutDuration)
		if _, err := h.db.Exec(`UPDATE users SET failed_attempts = 0, locked_until = $1 WHERE id = $2`, lockedUntil, u.id); err != nil {
			slog.Error("failed to lock account", "error", err, "user_id", u.id)
		}
		slog.Warn("account locked", "user_id", u.id, "until", lockedUntil)
		middleware.ErrorResponse(w, http.StatusLocked, models.CodeAccountLocked,
			fmt.Sprintf("Account locked due to too many failed attempts. Try again in %d minutes.", int(h.cfg.LockoutDuration.Minutes())))
		return
	}

	middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid email or password")
}

// VerifyOTP returns the handler for one verification endpoint:
//
//	POST /api/auth/verify-otp                  SIGNUP
//	POST /api/auth/verify-login-otp            LOGIN
//	POST /api/auth/verify-password-reset-otp   PASSWORD_RESET
func (h *AuthHandler) VerifyOTP(purpose models.OTPPurpose) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.VerifyOTPRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			validationError(w, err)
			return
		}
		if req.Purpose != "" && req.Purpose != purpose {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "purpose does not match this endpoint")
			return
		}

		email := normalizeEmail(req.Email)
		u, err := findUserByEmail(h.db, email)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "No account found with this email address")
			return
		}
		if err != nil {
			slog.Error("failed to query user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}

		result, remaining, err := checkOTP(h.db, h.cfg, email, req.OTPCode, purpose)
		if err != nil {
			slog.Error("failed to check otp", "error", err, "user_id", u.id)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		if result != otpValid {
			slog.Info("otp rejected", "user_id", u.id, "purpose", purpose, "result", result)
			writeOTPFailure(w, result, remaining)
			return
		}

		resp := models.VerifyOTPResponse{UserProfile: u.profile()}
		var message string

		switch purpose {
		case models.PurposeSignup:
			if _, err := h.db.Exec(`UPDATE users SET is_verified = TRUE WHERE id = $1`, u.id); err != nil {
				slog.Error("failed to mark user verified", "error", err, "user_id", u.id)
				middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
				return
			}
			resp.IsVerified = true
			message = "Email verified successfully. Please sign in."

		case models.PurposeLogin:
			token, expiresAt, err := auth.IssueToken(u.id, u.email, h.cfg.TokenSecret, h.cfg.TokenTTL)
			if err != nil {
				slog.Error("failed to issue token", "error", err, "user_id", u.id)
				middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to sign in")
				return
			}
			if _, err := h.db.Exec(`UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now().UTC(), u.id); err != nil {
				slog.Warn("failed to record last login", "error", err, "user_id", u.id)
			}
			resp.Token = token
			resp.ExpiresAt = expiresAt
			message = "Login successful"

		case models.PurposePasswordReset:
			token, expiresAt, err := auth.IssueScopedToken(u.id, u.email, auth.ScopePasswordReset, h.cfg.TokenSecret, h.cfg.OTPExpiry)
			if err != nil {
				slog.Error("failed to issue reset token", "error", err, "user_id", u.id)
				middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to verify code")
				return
			}
			resp.ResetToken = token
			resp.ExpiresAt = expiresAt
			message = "Code verified. You can now set a new password."
		}

		slog.Info("otp verified", "user_id", u.id, "purpose", purpose)
		middleware.SuccessResponse(w, http.StatusOK, message, resp)
	}
}

// ResendOTP handles POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ResendOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}

	email := normalizeEmail(req.Email)
	u, err := findUserByEmail(h.db, email)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "No account found with this email address")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if req.Purpose == models.PurposeSignup && u.verified {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Account is already verified")
		return
	}

	h.sendCode(w, email, req.Purpose, "A new verification code has been sent")
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if err := validate.ForgotPassword(req.Email); err != nil {
		validationError(w, err)
		return
	}

	email := normalizeEmail(req.Email)
	if !h.userExists(email) {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "No account found with this email address")
		return
	}

	h.sendCode(w, email, models.PurposePasswordReset, "Password reset code sent to your email")
}

// sendCode issues a code unless one was issued within the resend cooldown
func (h *AuthHandler) sendCode(w http.ResponseWriter, email string, purpose models.OTPPurpose, message string) {
	wait, err := otpCooldown(h.db, h.cfg, email, purpose)
	if err != nil {
		slog.Error("failed to check otp cooldown", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if wait > 0 {
		middleware.ErrorResponse(w, http.StatusTooManyRequests, models.CodeOTPCooldown,
			fmt.Sprintf("Please wait %d seconds before requesting a new code", int(math.Ceil(wait.Seconds()))))
		return
	}

	issued, err := issueOTP(h.db, h.cfg, email, purpose)
	if err != nil {
		slog.Error("failed to issue otp", "error", err, "purpose", purpose)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to send verification code")
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, message, issued)
}

// ResetPassword handles POST /api/auth/reset-password
// Requires the reset token returned by verify-password-reset-otp
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}

	claims, err := auth.ParseToken(req.ResetToken, h.cfg.TokenSecret)
	if err != nil || claims.Scope != auth.ScopePasswordReset {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, "Reset code is invalid or has expired. Please start again.")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, "Reset code is invalid or has expired. Please start again.")
		return
	}

	if err := validate.NewPassword(req.NewPassword, req.NewPassword); err != nil {
		validationError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to reset password")
		return
	}

	res, err := h.db.Exec(`
		UPDATE users SET password_hash = $1, failed_attempts = 0, locked_until = NULL
		WHERE id = $2
	`, hash, userID)
	if err != nil {
		slog.Error("failed to update password", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to reset password")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Account not found")
		return
	}

	slog.Info("password reset", "user_id", userID)
	middleware.SuccessResponse(w, http.StatusOK, "Password updated. Please sign in with your new password.", nil)
}

// Logout handles POST /api/auth/logout
// Tokens are stateless; the client discards its copy
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.SuccessResponse(w, http.StatusOK, "Logged out successfully", nil)
}

// TestOTP handles GET /api/auth/test-otp?email=&purpose=
// Dev mode only: returns the newest active code
func (h *AuthHandler) TestOTP(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.DevMode {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Not found")
		return
	}

	email := normalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "email is required")
		return
	}
	purpose := models.OTPPurpose(r.URL.Query().Get("purpose"))
	if purpose != "" && !purpose.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "unknown purpose")
		return
	}

	var (
		issued     models.OTPIssued
		storedPurp string
		row        *sql.Row
	)
	if purpose == "" {
		row = h.db.QueryRow(`
			SELECT code, purpose, expires_at FROM otp_codes
			WHERE email = $1 AND is_used = FALSE
			ORDER BY id DESC LIMIT 1
		`, email)
	} else {
		row = h.db.QueryRow(`
			SELECT code, purpose, expires_at FROM otp_codes
			WHERE email = $1 AND purpose = $2 AND is_used = FALSE
			ORDER BY id DESC LIMIT 1
		`, email, string(purpose))
	}
	err := row.Scan(&issued.OTPCode, &storedPurp, &issued.ExpiresAt)
	if err == sql.ErrNoRows || (err == nil && !time.Now().Before(issued.ExpiresAt)) {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "No active code for this email")
		return
	}
	if err != nil {
		slog.Error("failed to query otp", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	issued.Email = email
	issued.Purpose = models.OTPPurpose(storedPurp)
	middleware.SuccessResponse(w, http.StatusOK, "", issued)
}

// Health handles GET /api/auth/health
func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.SuccessResponse(w, http.StatusOK, "Auth service is running", models.HealthStatus{
		Service: "auth",
		Status:  "UP",
	})
}

func (h *AuthHandler) userExists(email string) bool {
	var count int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&count); err != nil {
		slog.Error("failed to check email", "error", err)
		return false
	}
	return count > 0
}
