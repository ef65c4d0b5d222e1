// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the wire types shared by the API server and the
voter client.

# Envelope

Every response body is an Envelope:

	{"success": true, "message": "...", "data": {...}, "timestamp": "..."}
	{"success": false, "message": "...", "errorCode": "ALREADY_VOTED"}

Clients decode into RawEnvelope and unmarshal Data into the endpoint's
response type.

# Error Codes

Rejections carry an ErrorCode (VALIDATION_ERROR, INVALID_CREDENTIALS,
ACCOUNT_LOCKED, ALREADY_VOTED, VOTING_CLOSED, ...). Callers branch on the
code rather than on message text.

# Request Types

  - SignupRequest: firstName, lastName, email, phoneNumber, password
  - LoginRequest: email, password
  - EmailRequest: email (forgot-password, check-email)
  - VerifyOTPRequest: email, otpCode, purpose
  - ResendOTPRequest: email, purpose
  - ResetPasswordRequest: resetToken, newPassword
  - CastVoteRequest: userId, constituencyId, candidateId, partyId

# Response Types

  - SignupResponse, LoginResponse, OTPIssued
  - VerifyOTPResponse: user profile plus bearer token (login only)
  - CheckEmailResponse, CastVoteResponse, HealthStatus

# Domain Types

  - UserProfile: the signed-in voter
  - VotingStatus: hasVoted, votingOpen
  - Constituency, Candidate
  - VoteReceipt: transaction id plus selection names
  - ElectionInfo: dates, registered voters, turnout
  - ConstituencyResults, CandidateTally

# OTP Purposes

	PurposeSignup        = "SIGNUP"
	PurposeLogin         = "LOGIN"
	PurposePasswordReset = "PASSWORD_RESET"

OTPPurpose.VerifyPath returns the verification endpoint for a purpose.
*/
package models
