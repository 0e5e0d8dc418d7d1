package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. Matching is by Code, so a wrapped
// AppError with the same code matches regardless of message or field.
var (
	ErrConstraintViolation = New(CodeConstraintViolation, "constraint violation", http.StatusBadRequest)
	ErrStorageUnavailable  = New(CodeStorageUnavailable, "storage unavailable", http.StatusServiceUnavailable)
	ErrNotFound            = New(CodeNotFound, "resource not found", http.StatusNotFound)
	ErrInternal            = New(CodeInternalError, "an unexpected error occurred", http.StatusInternalServerError)
)

type AppError struct {
	Code       string // e.g. CONSTRAINT_VIOLATION
	Message    string
	Field      string // input field that failed, if any
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// Constraint reports a rejected write; nothing was persisted.
func Constraint(field, message string) *AppError {
	return &AppError{
		Code:       CodeConstraintViolation,
		Message:    message,
		Field:      field,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unavailable wraps an I/O failure of the storage layer.
func Unavailable(err error) *AppError {
	return Wrap(err, CodeStorageUnavailable, "storage unavailable", http.StatusServiceUnavailable)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

// As extracts the AppError from err, falling back to ErrInternal.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternalError, ErrInternal.Message, http.StatusInternalServerError)
}
