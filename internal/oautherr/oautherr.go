package oautherr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies the failures an OAuth client call can produce.
type Kind string

const (
	// Transport represents connection-level failures.
	Transport Kind = "transport_error"
	// Status represents non-2xx HTTP responses.
	Status Kind = "status_error"
	// Decode represents charset decoding failures.
	Decode Kind = "decode_error"
	// Parse represents malformed response payloads.
	Parse Kind = "parse_error"
	// Precondition represents calls made before their prerequisites held.
	Precondition Kind = "precondition_error"
)

// Error is a classified client error.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with a classification.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithStatus records the HTTP status and body behind the error.
func (e *Error) WithStatus(code int, body string) *Error {
	e.StatusCode = code
	e.Body = body
	return e
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind Kind) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind == kind
	}
	return false
}

// FromStatus creates an Error for a non-2xx HTTP response.
func FromStatus(statusCode int, body string) *Error {
	return &Error{
		Kind:       Status,
		Message:    http.StatusText(statusCode),
		StatusCode: statusCode,
		Body:       body,
	}
}
