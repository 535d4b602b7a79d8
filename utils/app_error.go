package utils

import (
	"errors"
	"net/http"
)

// AppError is an operational error carrying the HTTP status it maps to.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

// WrapAppError keeps the cause for logging while exposing only message.
func WrapAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// AsAppError reports whether err is (or wraps) an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasStatus reports whether err maps to the given HTTP status.
func HasStatus(err error, status int) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Status == status
}
