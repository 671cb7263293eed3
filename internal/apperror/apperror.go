// Package apperror defines the error kinds the service layer returns.
//
// Services return *AppError values wrapping one of the sentinel kinds below.
// Handlers never inspect messages; they call errors.Is against the sentinels
// to pick a status code, so the service layer stays protocol-agnostic.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// Conflict reasons for event registration.
const (
	ReasonSelfRegistration  = "self_registration"
	ReasonAlreadyRegistered = "already_registered"
	ReasonEventFull         = "event_full"
)

type AppError struct {
	Err     error  // kind, one of the sentinels above
	Message string // human-readable error message
	Field   string // optional: field causing a validation error
	Reason  string // optional: machine-readable conflict reason
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict returns an AppError for a request that contradicts the current
// state of a record. reason is one of the Reason constants.
func Conflict(reason, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Reason:  reason,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// ReasonOf returns the conflict reason carried by err, or "".
func ReasonOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}
