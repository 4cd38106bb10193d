// Package apperr provides standardized domain error types for the application.
// Services return these typed errors and the HTTP layer maps them to status
// codes. Messages are human readable and safe to show to end users.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid input data (missing required fields included).
	KindValidation
	// KindConflict indicates a conflict with existing state (e.g., duplicate email).
	KindConflict
	// KindForbidden indicates the action is not allowed for the caller's role.
	KindForbidden
	// KindUnauthorized indicates authentication is required or failed.
	KindUnauthorized
	// KindBadRequest indicates a malformed request.
	KindBadRequest
	// KindInternal indicates a load or save failure against a backing store.
	KindInternal
	// KindUnavailable indicates an upstream dependency refused or failed the call.
	KindUnavailable
)

// Messages used for the store failure categories.
const (
	MsgLoadFailed = "erreur lors du chargement"
	MsgSaveFailed = "erreur lors de l'enregistrement"
)

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
	Details any    // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusBadGateway
	case KindInternal, KindUnknown:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation name.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets additional details for the response body.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// MissingFields creates a validation error listing the required fields left empty.
func MissingFields(fields []string) *Error {
	return New(KindValidation, fmt.Sprintf("champs obligatoires manquants: %s", strings.Join(fields, ", "))).
		WithDetails(map[string]any{"missing": fields})
}

// Conflict creates a conflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// Unavailable creates an upstream failure error.
func Unavailable(message string, err error) *Error {
	return Wrap(KindUnavailable, message, err)
}

// LoadFailed wraps a read error from a backing store. Typed errors pass through unchanged.
func LoadFailed(op string, err error) error {
	return storeFailure(op, MsgLoadFailed, err)
}

// SaveFailed wraps a write error from a backing store. Typed errors pass through unchanged.
func SaveFailed(op string, err error) error {
	return storeFailure(op, MsgSaveFailed, err)
}

func storeFailure(op, message string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return Wrap(KindInternal, message, err).WithOp(op)
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is found.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
