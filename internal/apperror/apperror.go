// Package apperror defines the error kinds surfaced by the HTTP layer.
//
// Every error that reaches a client is rendered as {"error": "<message>"}
// with the status code of its kind. Internal errors keep their cause for
// logging but never expose it.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of an application error
type Kind int

const (
	// KindInternal is an unexpected failure (500)
	KindInternal Kind = iota
	// KindValidation is missing or invalid input (400)
	KindValidation
	// KindAuthentication is bad or missing credentials (401)
	KindAuthentication
	// KindToken is an expired, malformed or wrong-kind token (401)
	KindToken
	// KindAuthorization is an authenticated caller without permission (403)
	KindAuthorization
	// KindNotFound is a missing resource (404)
	KindNotFound
	// KindMethodNotAllowed is an unsupported method on a known route (405)
	KindMethodNotAllowed
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindToken:
		return "token"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication, KindToken:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a client-facing message
type Error struct {
	Err     error // underlying cause, logged only
	Message string
	Kind    Kind
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code of the error
func (e *Error) Status() int {
	return e.Kind.Status()
}

// New creates an error of the given kind
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func Authentication(message string) *Error {
	return New(KindAuthentication, message, nil)
}

func Token(message string, cause error) *Error {
	return New(KindToken, message, cause)
}

func Authorization(message string) *Error {
	return New(KindAuthorization, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func MethodNotAllowed() *Error {
	return New(KindMethodNotAllowed, "Method not allowed", nil)
}

// Internal wraps an unexpected failure; the cause is never shown to clients
func Internal(cause error) *Error {
	return New(KindInternal, "internal server error", cause)
}

// From converts any error to an *Error, treating unknown errors as internal
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) Kind {
	return From(err).Kind
}
