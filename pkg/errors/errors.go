package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	// ErrParse marks malformed persisted content (schedule text, pending
	// blob). Components degrade to an empty result when they see it.
	ErrParse
	// ErrStoreUnavailable marks a failed read/write of an underlying store.
	// Recoverable by the immediate caller; never allowed to crash the host.
	ErrStoreUnavailable
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func NewParse(what string, err error) *AppError {
	return &AppError{
		Code:    ErrParse,
		Message: fmt.Sprintf("malformed %s", what),
		Err:     err,
	}
}

func NewStoreUnavailable(op string, err error) *AppError {
	return &AppError{
		Code:    ErrStoreUnavailable,
		Message: fmt.Sprintf("store unavailable during %s", op),
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// IsParse reports whether err is (or wraps) a parse error.
func IsParse(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrParse
}

// IsStoreUnavailable reports whether err is (or wraps) a store failure.
func IsStoreUnavailable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrStoreUnavailable
}
