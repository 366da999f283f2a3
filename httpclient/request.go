package httpclient

import (
	"io"
	"net/http"

	"github.com/kbukum/voicenotes/httpclient/sse"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL.
	Path string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body accepts io.Reader, []byte, string, or any value that will be
	// JSON-encoded. Nil sends no body.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	// StatusText is the reason phrase sent by the server ("Service Unavailable").
	StatusText string
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// StreamResponse wraps a streaming HTTP response.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string
	// SSE is set for text/event-stream responses.
	SSE sse.Reader
	// Body is set for any other stream.
	Body    io.ReadCloser
	rawResp *http.Response
}

// Close releases all resources associated with the stream.
func (r *StreamResponse) Close() error {
	if r.SSE != nil {
		return r.SSE.Close()
	}
	if r.Body != nil {
		return r.Body.Close()
	}
	if r.rawResp != nil && r.rawResp.Body != nil {
		return r.rawResp.Body.Close()
	}
	return nil
}
