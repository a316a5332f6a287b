// Package apperr defines the error kinds the HTTP layer knows how to answer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error for translation into an HTTP status.
type Kind string

const (
	// KindValidation means a required parameter is missing or malformed.
	KindValidation Kind = "validation"
	// KindAuthorization means the caller may not perform the operation.
	KindAuthorization Kind = "authorization"
	// KindNotFound means the addressed resource does not exist.
	KindNotFound Kind = "not_found"
	// KindUnexpected covers everything else, including collaborator failures.
	KindUnexpected Kind = "unexpected"
)

// Error is a structured error carrying a kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a new validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unauthorized creates a new authorization error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound creates a new not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unexpected wraps err as an unexpected failure with a client-safe message.
func Unexpected(err error, message string) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Cause: err}
}

// KindOf reports the kind of err. Errors that are not an *Error are unexpected.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// StatusCode maps a kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
