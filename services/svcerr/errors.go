// Package svcerr defines the domain error taxonomy shared by the booking,
// payment, and chat services. Handlers map codes onto HTTP statuses;
// internal causes are logged at the boundary and never leaked.
package svcerr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnauthenticated Code = "unauthenticated"
	CodeValidation      Code = "validation_failure"
	CodeNotFound        Code = "not_found"
	CodeUpstream        Code = "booking_upstream_failure"
	CodeConflict        Code = "conflict"
	CodeChatFailed      Code = "chat_processing_failed"
	CodeInternal        Code = "internal"
)

// Error is a coded service error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error wrapping an internal cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from an error chain.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal error"
}
