// Package errors provides structured error types for plotgrid's outer
// surfaces (CLI, HTTP API, configuration).
//
// The layout core never raises: stale ids are no-ops, bad numeric input
// becomes zero and storage failures are logged. Codes are used where a user
// supplied something plotgrid cannot act on.
//
// # Error Codes
//
//   - INVALID_*: input validation failures
//   - NOT_FOUND / AMBIGUOUS_ID: item id resolution
//   - NOT_MEASURED: pixel geometry sent before a container size
//   - STORAGE_ERROR: key-value backend could not be opened
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "no item matches %q", prefix)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing item
//	}
//
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "open %s store", backend)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidChartType Code = "INVALID_CHART_TYPE"
	ErrCodeInvalidField     Code = "INVALID_FIELD"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidBackend   Code = "INVALID_BACKEND"

	// Item resolution errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeAmbiguousID Code = "AMBIGUOUS_ID"

	// Pixel events before the container has been measured
	ErrCodeNotMeasured Code = "NOT_MEASURED"

	// Storage errors
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
