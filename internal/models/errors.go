package models

import (
	"errors"
	"fmt"
)

// Common error types
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("operation conflicts with current state")
	ErrUnauthorized = errors.New("no active session")
	ErrStorage      = errors.New("storage failure")
	ErrTransport    = errors.New("transport failure")
)

// Error codes carried by AppError
const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeStorageError   = "STORAGE_ERROR"
	CodeTransportError = "TRANSPORT_ERROR"
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Err:     ErrConflict,
	}
}

// ErrUnauthorizedWithMsg creates an authentication error
func ErrUnauthorizedWithMsg(message string) error {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Err:     ErrUnauthorized,
	}
}

// ErrStorageWithMsg wraps a key-value or database failure
func ErrStorageWithMsg(message string, err error) error {
	return &AppError{
		Code:    CodeStorageError,
		Message: message,
		Err:     errors.Join(ErrStorage, err),
	}
}

// ErrTransportWithMsg wraps a failure to hand a link to the environment
func ErrTransportWithMsg(message string, err error) error {
	return &AppError{
		Code:    CodeTransportError,
		Message: message,
		Err:     errors.Join(ErrTransport, err),
	}
}

// IsValidationError reports whether err is an INVALID_INPUT AppError
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeInvalidInput
}
