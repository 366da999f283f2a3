package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Transcription backend errors. Messages carried by these codes are shown
// to the user verbatim.
const (
	// ErrCodeBackendUnreachable indicates the status endpoint could not be reached
	// or answered with a non-success status.
	ErrCodeBackendUnreachable ErrorCode = "BACKEND_UNREACHABLE"
	// ErrCodeStartFailed indicates the backend refused to start recording.
	ErrCodeStartFailed ErrorCode = "START_FAILED"
	// ErrCodeStopFailed indicates the backend failed to stop recording or transcribe.
	ErrCodeStopFailed ErrorCode = "STOP_FAILED"
	// ErrCodeNoTranscription indicates the backend holds no transcription.
	ErrCodeNoTranscription ErrorCode = "NO_TRANSCRIPTION_AVAILABLE"
	// ErrCodeConfigUpdateFailed indicates the backend rejected a config update.
	ErrCodeConfigUpdateFailed ErrorCode = "CONFIG_UPDATE_FAILED"
	// ErrCodeListenModeFailed indicates the backend could not toggle wake-phrase listening.
	ErrCodeListenModeFailed ErrorCode = "LISTEN_MODE_FAILED"
)

// Document store errors
const (
	// ErrCodeNotAPlainDocument indicates a path exists but is not a regular document.
	ErrCodeNotAPlainDocument ErrorCode = "NOT_A_PLAIN_DOCUMENT"
	// ErrCodeStorage indicates the document store failed to read or write.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Control surface errors
const (
	// ErrCodeUnauthorized indicates a missing or wrong control token.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Resource and validation errors
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
)

// ErrCodeInternal indicates an unexpected internal error.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeBackendUnreachable: true,
	ErrCodeStorage:            true,
	ErrCodeRateLimited:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Nothing in voicenotes retries automatically; the flag is informational for
// clients of the control server.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
