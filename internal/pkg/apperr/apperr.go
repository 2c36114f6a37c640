// Package apperr defines the application error taxonomy shared by all
// services and the HTTP layer. Services return *Error values; the transport
// maps the code to an HTTP status and serializes the message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error category.
type Code string

const (
	CodeAuthInvalid      Code = "AUTH_INVALID"
	CodeAuthUserInactive Code = "AUTH_USER_INACTIVE"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION"
	CodeStateConflict    Code = "STATE_CONFLICT"
	CodeInternal         Code = "INTERNAL"
)

// Error is a coded application error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with a human-readable message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// AuthInvalid builds an AUTH_INVALID error.
func AuthInvalid(message string) *Error { return New(CodeAuthInvalid, message) }

// AuthUserInactive builds an AUTH_USER_INACTIVE error.
func AuthUserInactive(message string) *Error { return New(CodeAuthUserInactive, message) }

// Forbidden builds a FORBIDDEN error.
func Forbidden(message string) *Error { return New(CodeForbidden, message) }

// NotFound builds a NOT_FOUND error.
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// Validation builds a VALIDATION error.
func Validation(message string) *Error { return New(CodeValidation, message) }

// Validationf builds a VALIDATION error with a formatted message.
func Validationf(format string, args ...interface{}) *Error {
	return Newf(CodeValidation, format, args...)
}

// StateConflict builds a STATE_CONFLICT error.
func StateConflict(message string) *Error { return New(CodeStateConflict, message) }

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf extracts the code from err, or CodeInternal if err carries none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the message from err. Internal causes are not leaked.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.Message
	}
	return "internal error"
}

// HTTPStatus maps a code to its HTTP response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeAuthInvalid, CodeAuthUserInactive:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeStateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
