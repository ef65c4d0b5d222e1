// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"errors"
	"fmt"

	"github.com/VENUHARGI/OnlineVoting/models"
)

// Kind classifies why a request failed
type Kind int

const (
	KindTimeout Kind = iota + 1
	KindNetwork
	KindInvalidResponse
	KindHTTPStatus
	KindRejected
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindInvalidResponse:
		return "invalid response"
	case KindHTTPStatus:
		return "http status"
	case KindRejected:
		return "rejected"
	case KindInvalidRequest:
		return "invalid request"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by Client calls
type Error struct {
	Kind    Kind
	Status  int              // HTTP status, 0 when no response arrived
	Code    models.ErrorCode // server error code, if any
	Message string
	Fields  map[string]string // per-field messages for VALIDATION_ERROR
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "timeout: " + e.Message
	case KindInvalidResponse:
		return "invalid response: " + e.Message
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP status %d: %s", e.Status, e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the server error code carried by err, or ""
func CodeOf(err error) models.ErrorCode {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given server error code
func IsCode(err error, code models.ErrorCode) bool {
	return code != "" && CodeOf(err) == code
}

// KindOf returns the failure kind of err, or 0 for non-API errors
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
