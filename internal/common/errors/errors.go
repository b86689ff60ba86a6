// Package errors provides standardized error handling for the dashboard client.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNetwork              ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout              ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeServer               ErrorCode = "SERVER_ERROR"
	ErrCodeParse                ErrorCode = "PARSE_ERROR"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeSnapshotUnavailable ErrorCode = "SNAPSHOT_UNAVAILABLE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Sentinel errors for errors.Is checks at package boundaries.
var (
	ErrNetwork              = stderrors.New("network failure")
	ErrTimeout              = stderrors.New("request timed out")
	ErrAuthenticationFailed = stderrors.New("authentication failed")
	ErrServer               = stderrors.New("server error")
	ErrParse                = stderrors.New("malformed response")
	ErrValidation           = stderrors.New("validation failed")
	ErrSessionNotFound      = stderrors.New("no stored session")
	ErrSessionStore         = stderrors.New("session store failure")
	ErrSnapshotUnavailable  = stderrors.New("snapshot unavailable")
)

var sentinels = map[ErrorCode]error{
	ErrCodeNetwork:              ErrNetwork,
	ErrCodeTimeout:              ErrTimeout,
	ErrCodeAuthenticationFailed: ErrAuthenticationFailed,
	ErrCodeServer:               ErrServer,
	ErrCodeParse:                ErrParse,
	ErrCodeValidationFailed:     ErrValidation,
	ErrCodeSessionNotFound:      ErrSessionNotFound,
	ErrCodeSessionStoreFailed:   ErrSessionStore,
	ErrCodeSnapshotUnavailable:  ErrSnapshotUnavailable,
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes both the code sentinel and the underlying cause.
func (e *StandardError) Unwrap() []error {
	out := make([]error, 0, 2)
	if s, ok := sentinels[e.Code]; ok {
		out = append(out, s)
	}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNetworkError wraps a transport failure (DNS, refused connection, reset).
func NewNetworkError(err error) *StandardError {
	return newError(ErrCodeNetwork, "Unable to reach the server", errDetails(err), err)
}

// NewTimeoutError reports a request that exceeded its time budget.
func NewTimeoutError(timeout time.Duration, err error) *StandardError {
	e := newError(ErrCodeTimeout, fmt.Sprintf("Request timed out after %s", timeout), errDetails(err), err)
	e.Metadata = map[string]interface{}{"timeout": timeout.String()}
	return e
}

// NewAuthenticationFailedError marks the session as unrecoverable.
func NewAuthenticationFailedError(details string, cause error) *StandardError {
	return newError(ErrCodeAuthenticationFailed, "Session expired, please log in again", details, cause)
}

// NewServerError reports a non-2xx response other than a handled 401.
func NewServerError(status int, message string) *StandardError {
	e := newError(ErrCodeServer, message, fmt.Sprintf("status: %d", status), nil)
	e.Metadata = map[string]interface{}{"status": status}
	e.Retryable = status >= 500
	return e
}

// NewParseError reports a body that could not be decoded.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParse, "Received an invalid response from the server", errDetails(err), err)
}

// NewValidationError reports a payload rejected before it was sent.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Validation failed", details, nil)
}

// NewSessionNotFoundError reports an absent or discarded stored session.
func NewSessionNotFoundError(details string) *StandardError {
	return newError(ErrCodeSessionNotFound, "No active session", details, nil)
}

// NewSessionStoreError wraps a failing token store backend.
func NewSessionStoreError(op string, err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session storage failure", fmt.Sprintf("op: %s, error: %s", op, errDetails(err)), err)
}

// NewSnapshotUnavailableError wraps a failing snapshot source.
func NewSnapshotUnavailableError(source string, err error) *StandardError {
	return newError(ErrCodeSnapshotUnavailable, "Dashboard data is unavailable", fmt.Sprintf("source: %s, error: %s", source, errDetails(err)), err)
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether a caller may simply try again.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeSessionStoreFailed, ErrCodeSnapshotUnavailable:
		return true
	default:
		return false
	}
}

// GetErrorCategory groups error codes for logs and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "TIMEOUT"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "AUTH") || strings.Contains(codeStr, "SESSION"):
		return "AUTH"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SERVER") || strings.Contains(codeStr, "PARSE"):
		return "UPSTREAM"
	default:
		return "OTHER"
	}
}

// As is a convenience wrapper returning the StandardError in a chain, if any.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Is forwards to the standard library so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
