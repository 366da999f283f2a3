package rest

import (
	"encoding/json"
	"errors"

	"github.com/kbukum/voicenotes/httpclient"
)

// ErrDecode marks a successful response whose body is not the expected JSON.
var ErrDecode = errors.New("httpclient/rest: decode response")

// IsDecode checks if the error is an undecodable success body.
func IsDecode(err error) bool { return errors.Is(err, ErrDecode) }

// IsTimeout checks if the error is a timeout.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }

// IsConnection checks if the error is a transport failure.
func IsConnection(err error) bool { return httpclient.IsConnection(err) }

// ErrorField returns the string value of field in the JSON error body carried
// by err, or "" when err has no body or the field is absent.
func ErrorField(err error, field string) string {
	e, ok := httpclient.AsError(err)
	if !ok || len(e.Body) == 0 {
		return ""
	}
	var body map[string]any
	if json.Unmarshal(e.Body, &body) != nil {
		return ""
	}
	s, _ := body[field].(string)
	return s
}

// StatusText returns the reason phrase (or transport error text) carried by err.
func StatusText(err error) string {
	if e, ok := httpclient.AsError(err); ok && e.StatusText != "" {
		return e.StatusText
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
