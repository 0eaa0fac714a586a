// Package dErrors provides coded domain errors.
//
// Every error that crosses a package boundary carries a Code so transport
// layers can map it to a status without string matching. Wrap preserves the
// original error for errors.Is/As while replacing the outward-facing message.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks malformed or contradictory caller input
	// (negative amounts, day counts over 366, gift dated after death).
	CodeValidation Code = "validation"
	// CodeConfiguration marks a missing or invalid rate-table entry.
	// Fatal for the request; never retried.
	CodeConfiguration Code = "configuration"
	// CodeBadRequest marks a structurally unusable request body.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a missing record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness or state conflict.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeRateLimited marks a throttled request.
	CodeRateLimited Code = "rate_limited"
	// CodeInternal marks unexpected failures; details are never surfaced.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	code    Code
	message string
	cause   error
}

// New creates a coded error with a caller-facing message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
// A nil err returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's classification.
func (e *Error) Code() Code { return e.code }

// Message returns the caller-facing message without the cause chain.
func (e *Error) Message() string { return e.message }

// CodeOf extracts the Code from an error chain.
// Unclassified errors report CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
