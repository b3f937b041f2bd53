// Package errors provides the structured error type shared by the client,
// the listing controller and the dev backend.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Any non-2xx response, transport failure or undecodable body.
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"

	ErrCodeInvalidFilter ErrorCode = "INVALID_FILTER"
	ErrCodeInvalidPage   ErrorCode = "INVALID_PAGE"

	ErrCodeStatePersistFailed  ErrorCode = "STATE_PERSIST_FAILED"
	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Status    int       `json:"status,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("StandardError[%s %d]: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewRequestFailedError reports a non-2xx response. message is the backend's
// own message when it sent one.
func NewRequestFailedError(status int, message string) *StandardError {
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "Request failed"
	}
	return &StandardError{
		Code:      ErrCodeRequestFailed,
		Message:   message,
		Details:   fmt.Sprintf("status: %d", status),
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError reports a network-level failure (no HTTP status).
func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestFailed,
		Message:   "Could not reach the server",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidResponseError reports a 2xx response whose body could not be used.
func NewInvalidResponseError(status int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestFailed,
		Message:   "Server returned an unexpected response",
		Details:   details,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidFilterError(key, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilter,
		Message:   fmt.Sprintf("Invalid value for filter '%s'", key),
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidPageError(page, total int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPage,
		Message:   "Page out of range",
		Details:   fmt.Sprintf("page: %d, totalPages: %d", page, total),
		Timestamp: time.Now().UTC(),
	}
}

func NewStatePersistFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatePersistFailed,
		Message:   "Could not save application state",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewDatabaseQueryFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf returns the code of the first StandardError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

func IsRequestFailed(err error) bool {
	return CodeOf(err) == ErrCodeRequestFailed
}

// StatusOf returns the HTTP status carried by err, 0 when there is none.
func StatusOf(err error) int {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Status
	}
	return 0
}
