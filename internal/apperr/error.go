// Package apperr holds the error type returned to HTTP clients.
//
// An Error carries a user-facing message and an HTTP status. It can wrap an
// underlying cause which is logged server-side but never serialized.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// MsgInternal is the only message a client sees for unexpected faults.
const MsgInternal = "internal server error"

// Error is a client-safe error with an HTTP status.
type Error struct {
	err    error
	msg    string
	status int
}

// Error implements the error interface. The cause is preferred so that logs
// keep the full detail.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Message returns the user-facing message.
func (e *Error) Message() string {
	return e.msg
}

// StatusCode returns the HTTP status to respond with.
func (e *Error) StatusCode() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.err
}

// New creates an error with a message and status.
func New(msg string, status int) *Error {
	return &Error{msg: msg, status: status}
}

// Wrap creates an error with a message and status around cause.
func Wrap(cause error, msg string, status int) *Error {
	return &Error{err: cause, msg: msg, status: status}
}

// BadRequest creates a 400 error.
func BadRequest(msg string) *Error {
	return New(msg, http.StatusBadRequest)
}

// Internal wraps an unexpected fault into the generic 500 error.
func Internal(cause error) *Error {
	return Wrap(cause, MsgInternal, http.StatusInternalServerError)
}

// From converts any error into an *Error. Errors that are not already of this
// type become Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
