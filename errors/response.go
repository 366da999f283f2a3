package errors

import (
	"encoding/json"
	stderrors "errors"
)

// ErrorResponse is the error envelope written by the control server.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// FromResponse rebuilds an AppError from an error envelope received over
// HTTP. It reports false when body is not an envelope.
func FromResponse(status int, body []byte) (*AppError, bool) {
	var resp ErrorResponse
	if len(body) == 0 || json.Unmarshal(body, &resp) != nil || resp.Error.Code == "" {
		return nil, false
	}
	return &AppError{
		Code:       resp.Error.Code,
		Message:    resp.Error.Message,
		Retryable:  resp.Error.Retryable,
		HTTPStatus: status,
		Details:    resp.Error.Details,
	}, true
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Message returns the user-facing message of err: the AppError message when
// err is one, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
