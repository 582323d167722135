package errors

import (
	"errors"
	"net/http"
)

// HTTPError is a domain error already translated for the HTTP layer.
type HTTPError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError whose error code mirrors the status code.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Code: statusCode, Message: message}
}

var (
	ErrBadRequest      = NewHTTPError(http.StatusBadRequest, "bad request")
	ErrUnauthorized    = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrNotFound        = NewHTTPError(http.StatusNotFound, "not found")
	ErrTooManyRequests = NewHTTPError(http.StatusTooManyRequests, "too many requests")
)

// AsHTTPError unwraps err into an *HTTPError when possible.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
