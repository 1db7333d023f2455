// Package apierrors defines coded errors shared by services and the HTTP
// transport. Services attach a Code; the transport maps codes to HTTP
// statuses in one place so error envelopes stay consistent.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping.
type Code string

const (
	CodeInvalidInput        Code = "invalid_input"
	CodeRateLimited         Code = "rate_limited"
	CodeQuotaExhausted      Code = "quota_exhausted"
	CodeConfiguration       Code = "configuration_error"
	CodeUpstreamUnreachable Code = "upstream_unreachable"
	CodeInternal            Code = "internal_error"
)

// Error carries a code plus a caller-facing message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with a caller-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error. The cause is kept
// for logs but never written to clients.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message from an error chain. Unknown
// errors get a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error."
}

// ToHTTPStatus maps an error code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeRateLimited, CodeQuotaExhausted:
		return http.StatusTooManyRequests
	case CodeConfiguration, CodeUpstreamUnreachable, CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
