// Package apperror defines the error taxonomy shared by the service layer
// and the HTTP handlers. Handlers translate these sentinels into status
// codes; raw store errors never cross this boundary.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized marks a request without a valid session or with bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an action on a resource the caller does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a reference to an absent entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a unique-constraint violation (username, email).
	ErrConflict = errors.New("conflict")
)

// AppError carries a user-readable message alongside the taxonomy sentinel.
// The message is safe to surface to clients; the wrapped cause is not.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation builds an AppError for a rejected input field.
func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// NotFound builds an AppError for an absent resource.
func NotFound(resource string) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Forbidden builds an AppError for an ownership violation.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// Conflict builds an AppError for a uniqueness violation on the named field.
func Conflict(field, message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message, Field: field}
}

// Unauthorized builds an AppError with a generic credential failure message.
// The message never reveals whether the email or the password was wrong.
func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}
