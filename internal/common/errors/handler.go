// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler turns errors into the inline message a screen shows and logs
// them once at that boundary.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err with its category and returns the user-facing message.
func (h *ErrorHandler) Handle(operation string, err error) string {
	stdErr := Normalize(err)
	h.logger.Error("operation failed", map[string]interface{}{
		"operation": operation,
		"errorCode": string(stdErr.Code),
		"status":    stdErr.Status,
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	})
	return UserMessage(stdErr)
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// UserMessage renders err as short inline text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	stdErr := Normalize(err)
	switch stdErr.Code {
	case ErrCodeRequestFailed:
		if stdErr.Status > 0 {
			return "Failed to load gems: " + stdErr.Message
		}
		return "Failed to load gems: could not reach the server"
	case ErrCodeInvalidFilter, ErrCodeInvalidPage:
		return stdErr.Message
	case ErrCodeStatePersistFailed:
		return "Your changes could not be saved"
	default:
		return "Something went wrong"
	}
}
