// Package apperr provides the structured errors surfaced by the template
// engine. Every error carries a stable code so the HTTP layer can map it to
// a status without string matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeValidation Code = "VALIDATION_FAILED"
	CodeCapacity   Code = "CAPACITY_EXCEEDED"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeStorage    Code = "STORAGE_FAILED"
)

// Error is a structured application error.
type Error struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"-"`
	Err       error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is regardless of message or details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Code: CodeValidation}
	ErrCapacity   = &Error{Code: CodeCapacity}
	ErrNotFound   = &Error{Code: CodeNotFound}
	ErrConflict   = &Error{Code: CodeConflict}
	ErrStorage    = &Error{Code: CodeStorage}
)

// Validation reports a malformed module array or a disallowed module key.
func Validation(message, details string) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// Capacity reports that the workspace already has the maximum number of
// used templates.
func Capacity(workspaceID string, limit int) *Error {
	return &Error{
		Code:    CodeCapacity,
		Message: fmt.Sprintf("workspace already has %d used templates", limit),
		Details: "workspaceId: " + workspaceID,
	}
}

// NotFound reports a missing entity.
func NotFound(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: entity + " not found",
		Details: "id: " + id,
	}
}

// Conflict reports a mutation that the entity's current state forbids.
func Conflict(message, details string) *Error {
	return &Error{Code: CodeConflict, Message: message, Details: details}
}

// Storage wraps an underlying persistence failure.
func Storage(op string, err error) *Error {
	return &Error{
		Code:      CodeStorage,
		Message:   op + " failed",
		Details:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// As extracts an *Error from err. Errors that are not structured are
// reported as storage failures.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeStorage, Message: "internal error", Err: err}
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch As(err).Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeCapacity, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
