// Package errors provides structured error types for tilemeter.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes separate fatal load-time problems (bad colors, broken datasets,
// degenerate tiles) from recoverable runtime ones (a malformed progress
// line) and terminal-but-benign ones (the progress channel reaching EOF).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidColor, "bad hex string %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidColor) {
//	    // Handle at load time
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDataset, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Load-time (fatal) errors
	ErrCodeInvalidColor   Code = "INVALID_COLOR"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeDegenerateTile Code = "DEGENERATE_TILE"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Runtime (recoverable) errors
	ErrCodeDecode Code = "DECODE_ERROR"

	// Channel lifecycle
	ErrCodeChannelClosed Code = "CHANNEL_CLOSED"
	ErrCodeCancelled     Code = "CANCELLED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Fatal reports whether err is a load-time error that should abort startup
// before any render surface appears. Decode and channel lifecycle errors are
// never fatal.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidColor, ErrCodeInvalidDataset, ErrCodeInvalidConfig,
		ErrCodeDegenerateTile, ErrCodeFileNotFound:
		return true
	}
	return false
}
