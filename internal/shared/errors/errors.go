// Package errors classifies failures so the HTTP layer can map them to
// status codes and log levels without inspecting messages.
package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeUnauthorized     ErrorType = "unauthorized"
	ErrorTypeForbidden        ErrorType = "forbidden"
	ErrorTypeInternal         ErrorType = "internal"
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	ErrorTypeRateLimited      ErrorType = "rate_limited"
	// ErrorTypeExternal covers a backend that is disabled, unreachable or
	// stopped: the database, redis or the simulation engine.
	ErrorTypeExternal ErrorType = "external"
)

// AppError is a classified error with an optional cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newf(t ErrorType, format string, args ...any) error {
	return &AppError{Type: t, Message: fmt.Sprintf(format, args...)}
}

func wrap(t ErrorType, message string, err error) error {
	return &AppError{Type: t, Message: message, Err: err}
}

func NotFound(message string) error { return wrap(ErrorTypeNotFound, message, nil) }

func NotFoundf(format string, args ...any) error { return newf(ErrorTypeNotFound, format, args...) }

// Validation marks bad input: out-of-range masses, non-finite coordinates,
// malformed request bodies or scenario files.
func Validation(message string) error { return wrap(ErrorTypeValidation, message, nil) }

func Validationf(format string, args ...any) error { return newf(ErrorTypeValidation, format, args...) }

func WrapValidation(message string, err error) error { return wrap(ErrorTypeValidation, message, err) }

// Conflict marks a command that is valid but clashes with the current world,
// such as dragging a planet another session already holds.
func Conflict(message string) error { return wrap(ErrorTypeConflict, message, nil) }

func Conflictf(format string, args ...any) error { return newf(ErrorTypeConflict, format, args...) }

func WrapInternal(message string, err error) error { return wrap(ErrorTypeInternal, message, err) }

func Forbidden(message string) error { return wrap(ErrorTypeForbidden, message, nil) }

func Unauthorized(message string) error { return wrap(ErrorTypeUnauthorized, message, nil) }

func MethodNotAllowed(method string) error {
	return newf(ErrorTypeMethodNotAllowed, "method %s not allowed", method)
}

func RateLimited(message string) error { return wrap(ErrorTypeRateLimited, message, nil) }

func External(message string) error { return wrap(ErrorTypeExternal, message, nil) }

func WrapExternal(message string, err error) error { return wrap(ErrorTypeExternal, message, err) }

// Is reports whether err carries the given error type anywhere in its chain.
func Is(err error, errorType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errorType
}

// GetType returns the type of the first AppError in err's chain, and
// ErrorTypeInternal for unclassified errors.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}
