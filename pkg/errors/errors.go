// Package errors provides structured error types for gittrophy.
//
// Every stage of the pipeline reports failures through an [*Error] carrying a
// machine-readable [Code]. The CLI uses the code to decide how to present the
// failure; callers use [Is] to branch on a category without string matching.
//
// # Error Codes
//
//   - CONFIG: malformed year/clip argument, invalid geometry, text without font
//   - REPOSITORY: a repository could not be opened or walked
//   - TIMESTAMP: a commit timestamp cannot be mapped to a calendar date
//   - FONT: the font is unloadable or produced no usable glyph geometry
//   - IO: an output file could not be written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "invalid year %q", s)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the pipeline failure taxonomy.
const (
	// Input errors, reported before any repository is read or geometry is built.
	ErrCodeConfig Code = "CONFIG"

	// Source errors. REPOSITORY covers open and walk failures; TIMESTAMP is a
	// commit whose committer time has no calendar date (zero, or a year
	// outside 1..9999).
	ErrCodeRepository Code = "REPOSITORY"
	ErrCodeTimestamp  Code = "TIMESTAMP"

	// ErrCodeFont is an unreadable font file or a text that yields no glyph
	// geometry at all. A single missing glyph is not an error.
	ErrCodeFont Code = "FONT"

	// ErrCodeIO is a failed write of a mesh or heightmap file.
	ErrCodeIO Code = "IO"

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
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
