// Package errors provides structured error types for the eventcards renderer.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Fatal codes abort a single render call:
//   - UNKNOWN_FORMAT: the requested format id is not in the registry
//   - INVALID_ICON_TYPE: a layout references an icon outside the fixed set
//   - INVALID_DIMENSIONS: zero, negative or oversized scale
//   - INVALID_INPUT / INVALID_PATH: rejected caller input
//
// Recoverable codes describe a layer that was skipped; they are attached to
// the render result rather than returned:
//   - ASSET_MISSING: illustration or logo could not be loaded
//   - FONT_ASSET_MISSING: a primary font file was absent and a fallback was used
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownFormat, "unknown format %q", id)
//	if errors.Is(err, errors.ErrCodeUnknownFormat) {
//	    // reject the request
//	}
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeUnknownFormat     Code = "UNKNOWN_FORMAT"
	ErrCodeInvalidIconType   Code = "INVALID_ICON_TYPE"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"

	// Recoverable asset errors
	ErrCodeAssetMissing     Code = "ASSET_MISSING"
	ErrCodeFontAssetMissing Code = "FONT_ASSET_MISSING"

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

// IsFatal reports whether code aborts a render call. Asset codes are
// recovered locally and never abort.
func IsFatal(code Code) bool {
	switch code {
	case ErrCodeAssetMissing, ErrCodeFontAssetMissing:
		return false
	}
	return true
}
