// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apiclient is the voter client's HTTP wrapper around the voting API.

# Requests

Client.Do joins the base URL and path, JSON encodes the body, attaches
"Authorization: Bearer <token>" when the TokenSource has one, bounds the
call with a timeout and decodes the response envelope. There are no
retries.

	api := apiclient.New("http://localhost:3318/api", store, apiclient.WithTimeout(30*time.Second))
	resp := api.Do(ctx, http.MethodGet, "/voting/status", nil)
	if !resp.Success { ... resp.Err ... }

# Failures

Do never returns a raw transport error. Response.Err is an *Error whose
Kind says what went wrong:

  - KindTimeout: the deadline passed
  - KindNetwork: the request could not be sent
  - KindInvalidResponse: the body was not a JSON envelope
  - KindHTTPStatus: status >= 400 (Message falls back to "HTTP status N")
  - KindRejected: 2xx envelope with success=false

Server rejections carry a models.ErrorCode; use IsCode or CodeOf to
branch on it.

# Typed Calls

Each endpoint has a method returning (T, error), where a non-nil error is
always an *Error: Login, Signup, VerifyOTP, ResendOTP, ForgotPassword,
ResetPassword, TestOTP, CheckEmail, Logout, VotingStatus, Constituencies,
Candidates, CastVote, Receipt, ElectionInfo, Results and Health.
*/
package apiclient
