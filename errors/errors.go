package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status the control server answers with.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Backend constructors ---

// BackendUnreachable reports a failed status probe. statusText is the
// transport's status text, or the transport error when no response arrived.
func BackendUnreachable(statusText string) *AppError {
	return New(ErrCodeBackendUnreachable, "Backend request failed: "+statusText, http.StatusServiceUnavailable)
}

// StartFailed reports a rejected start-recording call.
func StartFailed(message string) *AppError {
	return New(ErrCodeStartFailed, message, http.StatusBadGateway)
}

// StopFailed reports a failed stop-recording call.
func StopFailed(message string) *AppError {
	return New(ErrCodeStopFailed, message, http.StatusBadGateway)
}

// NoTranscriptionAvailable reports that the backend holds no transcription.
func NoTranscriptionAvailable(message string) *AppError {
	return New(ErrCodeNoTranscription, message, http.StatusNotFound)
}

// ConfigUpdateFailed reports a rejected backend config update.
func ConfigUpdateFailed() *AppError {
	return New(ErrCodeConfigUpdateFailed, "Failed to update backend config", http.StatusBadGateway)
}

// ListenModeFailed reports a failed listen-mode toggle.
func ListenModeFailed(message string) *AppError {
	return New(ErrCodeListenModeFailed, message, http.StatusBadGateway)
}

// --- Document store constructors ---

// NotAPlainDocument reports a path that exists but is not a regular document.
func NotAPlainDocument(path string) *AppError {
	return &AppError{
		Code: ErrCodeNotAPlainDocument, Message: fmt.Sprintf("%s exists but is not a file", path),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"path": path},
	}
}

// StorageError wraps a document store failure on path.
func StorageError(op, path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStorage, Message: fmt.Sprintf("could not %s %s", op, path),
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"path": path, "operation": op}, Cause: cause,
	}
}

// --- Common constructors ---

// ServiceUnavailable creates a new AppError for a service that cannot serve yet.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Unauthorized creates a new AppError for a rejected control request.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: message,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
