package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request timeout or cancelled context.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeClient indicates any other 4xx response.
	ErrCodeClient
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeInvalidRequest indicates the request could not be built.
	ErrCodeInvalidRequest
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	case ErrCodeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// StatusText is the response reason phrase, or the transport error text
	// when no response arrived.
	StatusText string
	Code       ErrorCode
	Message    string
	// Body is the original response body (may be nil).
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), StatusText: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), StatusText: err.Error(), Err: err}
}

// NewInvalidRequestError creates an error for a request that could not be built.
func NewInvalidRequestError(msg string) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: msg, StatusText: msg}
}

// ClassifyStatusCode converts an HTTP status into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, statusText string, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{
		StatusCode: statusCode,
		StatusText: statusText,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
	switch {
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// reasonPhrase extracts "Service Unavailable" from "503 Service Unavailable",
// falling back to the standard text for the code.
func reasonPhrase(status string, code int) string {
	prefix := strconv.Itoa(code) + " "
	if text := strings.TrimPrefix(status, prefix); text != status && text != "" {
		return text
	}
	return http.StatusText(code)
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeTimeout
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeConnection
}

