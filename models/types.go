package models

import (
	"encoding/json"
	"time"
)

// OTP purposes as sent on the wire
type OTPPurpose string

const (
	PurposeSignup        OTPPurpose = "SIGNUP"
	PurposeLogin         OTPPurpose = "LOGIN"
	PurposePasswordReset OTPPurpose = "PASSWORD_RESET"
)

// Valid reports whether p is one of the known purposes
func (p OTPPurpose) Valid() bool {
	switch p {
	case PurposeSignup, PurposeLogin, PurposePasswordReset:
		return true
	}
	return false
}

// VerifyPath is the API path that verifies a code of this purpose
func (p OTPPurpose) VerifyPath() string {
	switch p {
	case PurposeLogin:
		return "/auth/verify-login-otp"
	case PurposePasswordReset:
		return "/auth/verify-password-reset-otp"
	default:
		return "/auth/verify-otp"
	}
}

// Vote status values
const (
	VoteStatusConfirmed = "CONFIRMED"
)

// Envelope

// Envelope is the body of every API response
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	ErrorCode ErrorCode `json:"errorCode,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RawEnvelope is Envelope as seen by a client, with data left undecoded
type RawEnvelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	ErrorCode ErrorCode       `json:"errorCode,omitempty"`
}

// Request types

type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyOTPRequest struct {
	Email   string     `json:"email" validate:"required"`
	OTPCode string     `json:"otpCode" validate:"required,len=6,numeric"`
	Purpose OTPPurpose `json:"purpose,omitempty"`
}

type ResendOTPRequest struct {
	Email   string     `json:"email" validate:"required"`
	Purpose OTPPurpose `json:"purpose" validate:"required,oneof=SIGNUP LOGIN PASSWORD_RESET"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type CastVoteRequest struct {
	UserID         int64 `json:"userId" validate:"gt=0"`
	ConstituencyID int64 `json:"constituencyId" validate:"gt=0"`
	CandidateID    int64 `json:"candidateId" validate:"gt=0"`
	PartyID        int64 `json:"partyId" validate:"gt=0"`
}

// Response types

type SignupResponse struct {
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
	OTPCode string `json:"otpCode,omitempty"`
}

type LoginResponse struct {
	RequiresOTP bool   `json:"requiresOTP"`
	Email       string `json:"email"`
	UserID      int64  `json:"userId"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	OTPCode     string `json:"otpCode,omitempty"`
}

// OTPIssued is returned when a code is (re)issued
type OTPIssued struct {
	Email     string     `json:"email"`
	Purpose   OTPPurpose `json:"purpose"`
	ExpiresAt time.Time  `json:"expiresAt"`
	OTPCode   string     `json:"otpCode,omitempty"`
}

// VerifyOTPResponse carries the profile plus, depending on purpose, a
// session token (login) or a password reset token (reset)
type VerifyOTPResponse struct {
	UserProfile
	Token      string    `json:"token,omitempty"`
	ResetToken string    `json:"resetToken,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

type CastVoteResponse struct {
	TransactionID string    `json:"transactionId"`
	VoteID        int64     `json:"voteId"`
	Constituency  string    `json:"constituency"`
	Candidate     string    `json:"candidate"`
	VotedAt       time.Time `json:"votedAt"`
}

type HealthStatus struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// Domain types

type UserProfile struct {
	UserID      int64  `json:"userId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	IsVerified  bool   `json:"isVerified"`
}

type VotingStatus struct {
	HasVoted   bool   `json:"hasVoted"`
	VotingOpen bool   `json:"votingOpen"`
	Message    string `json:"message,omitempty"`
}

type Constituency struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	District   string `json:"district"`
	VoterCount int64  `json:"voterCount"`
}

// Candidate is a candidate standing in a constituency, with party details
type Candidate struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PartyID        int64  `json:"partyId"`
	PartyName      string `json:"partyName"`
	PartySymbol    string `json:"partySymbol"`
	PartyColorCode string `json:"partyColorCode,omitempty"`
	Qualification  string `json:"qualification,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

type VoteReceipt struct {
	TransactionID    string    `json:"transactionId"`
	VoterID          int64     `json:"voterId"`
	ConstituencyName string    `json:"constituencyName"`
	CandidateName    string    `json:"candidateName"`
	PartyName        string    `json:"partyName"`
	Timestamp        time.Time `json:"timestamp"`
	Status           string    `json:"status"`
}

type ElectionInfo struct {
	StartDate             string  `json:"startDate"`
	EndDate               string  `json:"endDate"`
	TotalRegisteredVoters int64   `json:"totalRegisteredVoters"`
	TotalVotesCast        int64   `json:"totalVotesCast"`
	TurnoutPercentage     float64 `json:"turnoutPercentage"`
	ActiveConstituencies  int     `json:"activeConstituencies"`
}

type CandidateTally struct {
	CandidateID   int64  `json:"candidateId"`
	CandidateName string `json:"candidateName"`
	PartyName     string `json:"partyName"`
	Votes         int64  `json:"votes"`
	Rank          int    `json:"rank"`
}

type ConstituencyResults struct {
	ConstituencyID   int64            `json:"constituencyId"`
	ConstituencyName string           `json:"constituencyName"`
	TotalVotes       int64            `json:"totalVotes"`
	Candidates       []CandidateTally `json:"candidates"`
}
