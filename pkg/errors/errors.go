// Package errors provides the unified error type and factory functions for
// IPBooks-Bridge.  Infrastructure layers (docket database, accounting gateway,
// invoice ingestion) use AppError as the single carrier for structured error
// information; the reconciliation engine's own three-way taxonomy (skip,
// parse, mismatch) lives in internal/reconcile because it is control flow,
// not failure reporting.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the structured error type used throughout IPBooks-Bridge.  It
// satisfies the standard error interface and supports Go 1.13+ wrapping so
// that errors.Is / errors.As / errors.Unwrap work across all layers.
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context (record names, row numbers, and
	// the like) that aids debugging without bloating Message.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full chain.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when
// Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.  Safe to
// call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// New constructs a fresh AppError with the given code and message.  Pass an
// empty message to use the code's canonical description.
func New(code ErrorCode, message string) *AppError {
	if message == "" {
		message = DefaultMessageForCode(code)
	}
	return &AppError{Code: code, Message: message}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline on call results.  When err is
// already an *AppError and code is CodeUnknown the original code is
// preserved, preventing loss of the original classification during
// cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	if message == "" {
		message = DefaultMessageForCode(code)
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's
// chain, or CodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}
