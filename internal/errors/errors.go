// Package errors provides the coded error type shared by the layout engine,
// the repositories and the HTTP handlers.
//
// Codes map onto the error classes the admin UI distinguishes:
//   - INVALID_INPUT: local validation, rejected before any remote call
//   - UNAUTHORIZED: no signed-in identity, answered as a login redirect
//   - NOT_FOUND: missing slot, layout, occupant or preview
//   - CONFLICT: a status transition that is not allowed from the current state
//   - REMOTE_IO: store, blob or detection endpoint failures
//   - DATA_SHAPE: unexpected fields from the store or the detection endpoint
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRemoteIO     Code = "REMOTE_IO"
	CodeDataShape    Code = "DATA_SHAPE"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps cause in its chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix or cause.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
