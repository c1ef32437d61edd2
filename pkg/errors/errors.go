package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the kind of outcome a single URL can end with
type ErrorType string

const (
	ErrorTypeSchemeRejected ErrorType = "scheme_rejected"
	ErrorTypeHTTPStatus     ErrorType = "http_status"
	ErrorTypeConnection     ErrorType = "connection"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeNotImage       ErrorType = "not_image"
	ErrorTypeTooLarge       ErrorType = "too_large"
	ErrorTypeDuplicate      ErrorType = "duplicate"
	ErrorTypeMalformedURL   ErrorType = "malformed_url"
	ErrorTypeUnexpected     ErrorType = "unexpected"
)

// Error represents a per-URL fetch error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given type
func New(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given type around a cause
func Wrap(t ErrorType, err error, message string) *Error {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	return &Error{Type: t, Message: msg, Err: err}
}

// KindOf returns the type of err. Errors not created by this package are unexpected.
func KindOf(err error) ErrorType {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Type
	}
	return ErrorTypeUnexpected
}

// IsSkip reports whether an error type means the URL was deliberately passed over
// rather than failing.
func IsSkip(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeSchemeRejected, ErrorTypeNotImage, ErrorTypeTooLarge, ErrorTypeDuplicate:
		return true
	default:
		return false
	}
}

// IsSuccessStatusCode reports whether an HTTP status code is in the 2xx range
func IsSuccessStatusCode(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
