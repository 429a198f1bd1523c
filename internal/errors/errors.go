// Package errors provides error handling for the WorkHub agent.
package errors

import (
	"errors"
	"strings"
)

// ============================================================
// Error Categories
// ============================================================

// Category defines the type of error for handling decisions.
type Category int

const (
	// CategoryTemporary errors are retryable (network timeouts, temporary failures)
	CategoryTemporary Category = iota

	// CategoryPermanent errors are not retryable (invalid input, not found)
	CategoryPermanent

	// CategoryUser errors are due to user input (validation, syntax)
	CategoryUser

	// CategorySystem errors are system-level (disk full, permissions)
	CategorySystem
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTemporary:
		return "temporary"
	case CategoryPermanent:
		return "permanent"
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	default:
		return "unknown"
	}
}

// ============================================================
// AppError - Main Error Type
// ============================================================

// AppError is the main error type for all agent errors.
type AppError struct {
	// Code is a unique error code for programmatic handling
	Code string

	// Message is a user-friendly error message
	Message string

	// Category determines how the error should be handled
	Category Category

	// Inner is the underlying error
	Inner error
}

// Error returns the error message.
func (e *AppError) Error() string {
	var sb strings.Builder

	if e.Code != "" {
		sb.WriteString("[")
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}

	sb.WriteString(e.Message)

	if e.Inner != nil {
		innerMsg := e.Inner.Error()
		if innerMsg != "" && innerMsg != e.Message {
			sb.WriteString(": ")
			sb.WriteString(innerMsg)
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Inner
}

// New creates a new AppError.
func New(code, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// Wrap wraps an existing error with context.
func Wrap(err error, code, message string, category Category) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
		Inner:    err,
	}
}

// ============================================================
// Model Collaborator Errors
// ============================================================

// Model error codes. The classifier and composer match on these to select
// their deterministic fallback path; none of them ever reach the caller.
const (
	CodeModelUnavailable = "MODEL_UNAVAILABLE"
	CodeModelTimeout     = "MODEL_TIMEOUT"
	CodeModelStatus      = "MODEL_BAD_STATUS"
	CodeMalformedReply   = "MODEL_MALFORMED_REPLY"
)

// ModelUnavailable reports that the model endpoint is not configured or
// not reachable.
func ModelUnavailable(inner error) *AppError {
	return Wrap(inner, CodeModelUnavailable, "model endpoint unavailable", CategoryTemporary)
}

// ModelTimeout reports that a model call exceeded its deadline.
func ModelTimeout(inner error) *AppError {
	return Wrap(inner, CodeModelTimeout, "model call timed out", CategoryTemporary)
}

// ModelStatus reports a non-2xx reply from the model endpoint.
func ModelStatus(inner error) *AppError {
	return Wrap(inner, CodeModelStatus, "model endpoint returned an error status", CategoryTemporary)
}

// MalformedReply reports a model reply that does not match the expected
// format. Treated the same as unavailability.
func MalformedReply(inner error) *AppError {
	return Wrap(inner, CodeMalformedReply, "model reply did not match expected format", CategoryPermanent)
}

// IsModelFailure reports whether err is one of the model collaborator
// failures that the pipeline recovers from locally.
func IsModelFailure(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeModelUnavailable, CodeModelTimeout, CodeModelStatus, CodeMalformedReply:
		return true
	}
	return false
}
