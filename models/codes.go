package models

// ErrorCode identifies why the API rejected a request. Clients branch on
// the code, never on the human-readable message.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeAccountLocked      ErrorCode = "ACCOUNT_LOCKED"
	CodeAccountNotVerified ErrorCode = "ACCOUNT_NOT_VERIFIED"
	CodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeInvalidOTP         ErrorCode = "INVALID_OTP"
	CodeOTPExpired         ErrorCode = "OTP_EXPIRED"
	CodeOTPUsed            ErrorCode = "OTP_USED"
	CodeTooManyAttempts    ErrorCode = "TOO_MANY_ATTEMPTS"
	CodeOTPCooldown        ErrorCode = "OTP_COOLDOWN"
	CodeAlreadyVoted       ErrorCode = "ALREADY_VOTED"
	CodeVotingClosed       ErrorCode = "VOTING_CLOSED"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeInvalidSelection   ErrorCode = "INVALID_SELECTION"
	CodeResultsSealed      ErrorCode = "RESULTS_SEALED"
)
