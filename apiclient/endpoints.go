// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/VENUHARGI/OnlineVoting/models"
)

// Liveness probe paths
const (
	HealthAuth     = "/auth/health"
	HealthVoting   = "/voting/health"
	HealthDatabase = "/system/health/database"
)

// LoginReply covers both login outcomes: an OTP challenge, or a session
// (token plus profile) when the server skips the second step
type LoginReply struct {
	models.LoginResponse
	Token       string `json:"token,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	IsVerified  bool   `json:"isVerified,omitempty"`
}

// Profile returns the user profile carried by a direct-session reply
func (r LoginReply) Profile() models.UserProfile {
	full := r.FullName
	if full == "" {
		full = strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	return models.UserProfile{
		UserID:      r.UserID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		FullName:    full,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		IsVerified:  r.IsVerified,
	}
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (LoginReply, error) {
	return call[LoginReply](ctx, c, http.MethodPost, "/auth/login", req)
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (models.SignupResponse, error) {
	return call[models.SignupResponse](ctx, c, http.MethodPost, "/auth/signup", req)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (models.OTPIssued, error) {
	return call[models.OTPIssued](ctx, c, http.MethodPost, "/auth/forgot-password", models.EmailRequest{Email: email})
}

// VerifyOTP posts the code to the endpoint for purpose
func (c *Client) VerifyOTP(ctx context.Context, purpose models.OTPPurpose, email, code string) (models.VerifyOTPResponse, error) {
	return call[models.VerifyOTPResponse](ctx, c, http.MethodPost, purpose.VerifyPath(), models.VerifyOTPRequest{
		Email:   email,
		OTPCode: code,
		Purpose: purpose,
	})
}

func (c *Client) ResendOTP(ctx context.Context, email string, purpose models.OTPPurpose) (models.OTPIssued, error) {
	return call[models.OTPIssued](ctx, c, http.MethodPost, "/auth/resend-otp", models.ResendOTPRequest{Email: email, Purpose: purpose})
}

// ResetPassword sets a new password using the token from reset verification
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	_, err := call[struct{}](ctx, c, http.MethodPost, "/auth/reset-password", models.ResetPasswordRequest{
		ResetToken:  resetToken,
		NewPassword: newPassword,
	})
	return err
}

// TestOTP fetches the active code from a development server; purpose may be empty
func (c *Client) TestOTP(ctx context.Context, email string, purpose models.OTPPurpose) (models.OTPIssued, error) {
	q := url.Values{}
	q.Set("email", email)
	if purpose != "" {
		q.Set("purpose", string(purpose))
	}
	return call[models.OTPIssued](ctx, c, http.MethodGet, "/auth/test-otp?"+q.Encode(), nil)
}

func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	resp, err := call[models.CheckEmailResponse](ctx, c, http.MethodPost, "/auth/check-email", models.EmailRequest{Email: email})
	return resp.Exists, err
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := call[struct{}](ctx, c, http.MethodPost, "/auth/logout", nil)
	return err
}

func (c *Client) VotingStatus(ctx context.Context) (models.VotingStatus, error) {
	return call[models.VotingStatus](ctx, c, http.MethodGet, "/voting/status", nil)
}

func (c *Client) Constituencies(ctx context.Context) ([]models.Constituency, error) {
	return call[[]models.Constituency](ctx, c, http.MethodGet, "/voting/constituencies", nil)
}

// Candidates lists the candidates (with their parties) standing in a constituency
func (c *Client) Candidates(ctx context.Context, constituencyID int64) ([]models.Candidate, error) {
	return call[[]models.Candidate](ctx, c, http.MethodGet, fmt.Sprintf("/voting/constituencies/%d/parties", constituencyID), nil)
}

func (c *Client) CastVote(ctx context.Context, req models.CastVoteRequest) (models.CastVoteResponse, error) {
	return call[models.CastVoteResponse](ctx, c, http.MethodPost, "/voting/cast-vote", req)
}

func (c *Client) Receipt(ctx context.Context, userID int64) (models.VoteReceipt, error) {
	return call[models.VoteReceipt](ctx, c, http.MethodGet, fmt.Sprintf("/voting/receipt?userId=%d", userID), nil)
}

func (c *Client) ElectionInfo(ctx context.Context) (models.ElectionInfo, error) {
	return call[models.ElectionInfo](ctx, c, http.MethodGet, "/voting/election-info", nil)
}

func (c *Client) Results(ctx context.Context, constituencyID int64) (models.ConstituencyResults, error) {
	return call[models.ConstituencyResults](ctx, c, http.MethodGet, fmt.Sprintf("/voting/results/%d", constituencyID), nil)
}

// Health probes one of the liveness endpoints
func (c *Client) Health(ctx context.Context, path string) (models.HealthStatus, error) {
	return call[models.HealthStatus](ctx, c, http.MethodGet, path, nil)
}
