package apperrors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by repositories, services and the HTTP error mapper
var (
	// ErrNotFound means the row does not exist or is hidden by its is_active state
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidState means an is_active precondition was violated
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict means the operation is blocked by existing references or duplicates
	ErrConflict = errors.New("conflict")
	// ErrValidationFailed means the request payload is incomplete or malformed
	ErrValidationFailed = errors.New("validation failed")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// CustomError carries a user-facing message over one of the sentinel errors
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NotFound builds a not-found error, e.g. NotFound("Student %s not found", id)
func NotFound(format string, args ...interface{}) *CustomError {
	return NewCustomError(ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidState builds an invalid-state error
func InvalidState(format string, args ...interface{}) *CustomError {
	return NewCustomError(ErrInvalidState, fmt.Sprintf(format, args...))
}

// Conflict builds a conflict error
func Conflict(format string, args ...interface{}) *CustomError {
	return NewCustomError(ErrConflict, fmt.Sprintf(format, args...))
}

// Validation builds a validation error
func Validation(format string, args ...interface{}) *CustomError {
	return NewCustomError(ErrValidationFailed, fmt.Sprintf(format, args...))
}

// Message returns the user-facing message of err when it carries one.
// Errors without a CustomError in their chain yield fallback so that internal
// details never reach the client.
func Message(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

// DetailsOf returns the details of the first CustomError in the chain
func DetailsOf(err error) map[string]interface{} {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
