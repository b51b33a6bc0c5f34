package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Request errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Pipeline errors, one per failing stage
	ErrCodeTemplateResolution ErrorCode = "TEMPLATE_RESOLUTION_FAILED"
	ErrCodeTemplateNotFound   ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeSubstitution       ErrorCode = "SUBSTITUTION_FAILED"
	ErrCodeConnectivity       ErrorCode = "CONNECTIVITY_FAILED"
	ErrCodeDialect            ErrorCode = "DIALECT_UNSUPPORTED"
	ErrCodeDatabase           ErrorCode = "DATABASE_FAILED"

	// Infrastructure errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Status  int // HTTP status code
}

// Error implements the error interface. The code is left out so the text can
// be handed to the caller as-is.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  getHTTPStatus(code),
	}
}

// WrapError wraps an existing error with an error code and message
func WrapError(code ErrorCode, message string, err error) *AppError {
	return NewAppError(code, message, err)
}

// Newf creates an application error with a formatted message and no cause
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return NewAppError(code, fmt.Sprintf(format, args...), nil)
}

// getHTTPStatus maps error codes to HTTP status codes
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput, ErrCodeSubstitution, ErrCodeDialect:
		return http.StatusBadRequest
	case ErrCodeTemplateResolution:
		return http.StatusBadGateway
	case ErrCodeConnectivity:
		return http.StatusServiceUnavailable
	case ErrCodeDatabase:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// Is reports whether err carries the given code anywhere in its chain
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	for err != nil {
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// StatusOf returns the HTTP status for err
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
