package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/voicenotes/httpclient"
)

// Client is a JSON client over httpclient.Client. Requests send
// Accept: application/json; JSON bodies set their own Content-Type.
type Client struct {
	http *httpclient.Client
}

// New creates a new REST client from the given config.
func New(cfg httpclient.Config) (*Client, error) {
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	if _, ok := cfg.Headers["Accept"]; !ok {
		cfg.Headers["Accept"] = "application/json"
	}

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// Response wraps a typed REST response.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, c *Client, path string) (*Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil)
}

// Post performs a POST request and decodes the response into type T. A nil
// body sends an empty request body.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body and decodes the response into type T.
func Put[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPut, path, body)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (*Response[T], error) {
	resp, err := c.http.Do(ctx, httpclient.Request{Method: method, Path: path, Body: body})
	if err != nil {
		// Error statuses still decode when the body matches T.
		if resp != nil {
			var data T
			if jsonErr := json.Unmarshal(resp.Body, &data); jsonErr == nil {
				return &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, Data: data}, err
			}
		}
		return nil, err
	}

	var data T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}
	return &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, Data: data}, nil
}
