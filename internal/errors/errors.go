package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Request processing errors, contained at the request boundary
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeInvalidHash      ErrorCode = "INVALID_HASH"
	ErrCodeDispatchFailed   ErrorCode = "DISPATCH_FAILED"

	// Degrades to the unshortened URL, never leaves the formatter
	ErrCodeShorteningFailed ErrorCode = "SHORTENING_FAILED"

	// Startup errors, fatal
	ErrCodeBindFailed    ErrorCode = "BIND_FAILED"
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// AppError represents an application error with additional context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with application context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or ""
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err's chain contains an AppError with code
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// MalformedPayload creates a malformed payload error
func MalformedPayload(message string, err error) *AppError {
	return Wrap(err, ErrCodeMalformedPayload, message)
}

// InvalidHash creates an invalid commit hash error
func InvalidHash(hash string) *AppError {
	return New(ErrCodeInvalidHash, fmt.Sprintf("commit hash %q is shorter than 7 characters", hash))
}

// ShorteningFailed creates a URL shortening error
func ShorteningFailed(url string, err error) *AppError {
	return Wrapf(err, ErrCodeShorteningFailed, "failed to shorten URL %s", url)
}

// DispatchFailed creates a message dispatch error
func DispatchFailed(channel string, err error) *AppError {
	return Wrapf(err, ErrCodeDispatchFailed, "failed to send message to %s", channel)
}

// BindFailed creates a listener bind error
func BindFailed(addr string, err error) *AppError {
	return Wrapf(err, ErrCodeBindFailed, "failed to listen on %s", addr)
}

// InvalidConfig creates a configuration error
func InvalidConfig(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}
