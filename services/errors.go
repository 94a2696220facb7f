package services

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries the HTTP status a handler should answer with. Store-level
// outcomes (not found, position conflict, bad input, no principal) are
// values of this type, never panics; handlers translate them at the boundary.
type AppError struct {
	HTTPCode int
	Message  string
	Data     interface{}
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newAppError(httpCode int, message string, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Message: message, Err: err}
}

func newNotFoundError(message string) *AppError {
	return &AppError{HTTPCode: http.StatusNotFound, Message: message}
}

func newConflictError(message string) *AppError {
	return &AppError{HTTPCode: http.StatusConflict, Message: message}
}

func newValidationError(message string) *AppError {
	return &AppError{HTTPCode: http.StatusUnprocessableEntity, Message: message}
}

// asAppError passes typed outcomes through unchanged and wraps anything else
// (a failed commit, a rollback error) as an internal error.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return newAppError(http.StatusInternalServerError, "transaction failed", err)
}
