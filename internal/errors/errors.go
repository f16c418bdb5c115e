// Package errors provides the coded error types used across cover-mosaic.
//
// Every failure the pipeline can surface carries a Code so that callers
// (the CLI, the TUI) can tell configuration mistakes apart from an empty
// catalog or a broken invariant:
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "unknown shape %q", shape)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // fix the settings file
//	}
//
//	// Wrap an underlying cause
//	err := errors.Wrap(errors.ErrCodeMetadataQuery, origErr, "lookup %s - %s", artist, title)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// ErrCodeMetadataQuery marks a failed artwork lookup. The loader
	// recovers from it with a placeholder; it is never fatal.
	ErrCodeMetadataQuery Code = "METADATA_QUERY_FAILURE"

	// ErrCodeInvalidConfig marks settings rejected during validation.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// ErrCodeUnsupported marks a declared but unimplemented option.
	ErrCodeUnsupported Code = "UNSUPPORTED"

	// ErrCodeEmptyCatalog is returned when there is nothing to compose.
	ErrCodeEmptyCatalog Code = "EMPTY_CATALOG"

	// ErrCodeNonSquareCatalog is returned by the reject overflow policy.
	ErrCodeNonSquareCatalog Code = "NON_SQUARE_CATALOG"

	// ErrCodeCatalogTooLarge is returned when the lattice exceeds the
	// configured tile budget.
	ErrCodeCatalogTooLarge Code = "CATALOG_TOO_LARGE"

	// ErrCodeInvalidInput marks malformed input records.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeInternal marks a violated invariant.
	ErrCodeInternal Code = "INTERNAL"
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
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error
// values and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
