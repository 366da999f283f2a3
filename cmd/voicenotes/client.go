package main

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/voicenotes/backend"
	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/host/httphost"
	"github.com/kbukum/voicenotes/httpclient"
	"github.com/kbukum/voicenotes/httpclient/rest"
	"github.com/kbukum/voicenotes/httpclient/sse"
	"github.com/kbukum/voicenotes/version"
)

// controlClient talks to a running daemon's control server.
type controlClient struct {
	rest    *rest.Client
	headers map[string]string
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func newControlClient(addr, token string) (*controlClient, error) {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	headers := map[string]string{"User-Agent": version.UserAgent()}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	rc, err := rest.New(httpclient.Config{
		BaseURL:    strings.TrimSuffix(addr, "/"),
		Timeout:    2 * time.Minute,
		Headers:    headers,
		TracerName: "voicenotes/cli",
	})
	if err != nil {
		return nil, err
	}
	return &controlClient{rest: rc, headers: headers}, nil
}

func (c *controlClient) Execute(ctx context.Context, id string) (httphost.CommandResponse, error) {
	resp, err := rest.Post[envelope[httphost.CommandResponse]](ctx, c.rest, "/commands/"+id, nil)
	return data(resp, err)
}

func (c *controlClient) Commands(ctx context.Context) ([]host.CommandInfo, error) {
	resp, err := rest.Get[envelope[[]host.CommandInfo]](ctx, c.rest, "/commands")
	return data(resp, err)
}

func (c *controlClient) Status(ctx context.Context) (httphost.StatusResponse, error) {
	resp, err := rest.Get[envelope[httphost.StatusResponse]](ctx, c.rest, "/status")
	return data(resp, err)
}

func (c *controlClient) Settings(ctx context.Context) (config.Settings, error) {
	resp, err := rest.Get[envelope[config.Settings]](ctx, c.rest, "/settings")
	return data(resp, err)
}

// UpdateSettings sends a partial settings document.
func (c *controlClient) UpdateSettings(ctx context.Context, patch map[string]any) (config.Settings, error) {
	resp, err := rest.Put[envelope[config.Settings]](ctx, c.rest, "/settings", patch)
	return data(resp, err)
}

func (c *controlClient) BackendStatus(ctx context.Context) (httphost.BackendStatusResponse, error) {
	resp, err := rest.Get[envelope[httphost.BackendStatusResponse]](ctx, c.rest, "/backend/status")
	return data(resp, err)
}

func (c *controlClient) LastTranscription(ctx context.Context) (backend.TranscriptionResult, error) {
	resp, err := rest.Get[envelope[backend.TranscriptionResult]](ctx, c.rest, "/backend/transcription")
	return data(resp, err)
}

// Watch streams events until ctx ends or the daemon closes the stream.
func (c *controlClient) Watch(ctx context.Context, fn func(*sse.Event) error) error {
	stream, err := c.rest.HTTP().DoStream(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/events",
		Headers: map[string]string{"Accept": "text/event-stream"},
	})
	if err != nil {
		return remoteError(err)
	}
	defer func() { _ = stream.Close() }()
	if stream.SSE == nil {
		return errors.New(errors.ErrCodeInternal, "daemon did not answer with an event stream", http.StatusBadGateway)
	}

	for {
		ev, err := stream.SSE.Next()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

func data[T any](resp *rest.Response[envelope[T]], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, remoteError(err)
	}
	return resp.Data.Data, nil
}

// remoteError turns a daemon error body back into an AppError so the CLI
// prints the same message the daemon would show.
func remoteError(err error) error {
	hErr, ok := httpclient.AsError(err)
	if !ok {
		return err
	}
	if hErr.Code == httpclient.ErrCodeConnection {
		return errors.ServiceUnavailable("voicenotes daemon").WithCause(err)
	}
	if appErr, ok := errors.FromResponse(hErr.StatusCode, hErr.Body); ok {
		return appErr.WithCause(err)
	}
	return err
}
