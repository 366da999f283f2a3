package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/httpclient"
	"github.com/kbukum/voicenotes/httpclient/rest"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/observability"
	"github.com/kbukum/voicenotes/version"
)

// Config holds configuration for the backend client.
type Config struct {
	// URL is the service base URL. A trailing slash is stripped.
	URL string `mapstructure:"url"`
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records every call on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger; the component field is added by New.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client talks to the transcription service over HTTP.
type Client struct {
	baseURL string
	rest    *rest.Client
	metrics *observability.Metrics
	log     *logger.Logger
}

// New creates a client for cfg.URL.
func New(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSuffix(cfg.URL, "/")

	rc, err := rest.New(httpclient.Config{
		BaseURL:    baseURL,
		Timeout:    cfg.Timeout,
		Headers:    map[string]string{"User-Agent": version.UserAgent()},
		TracerName: "voicenotes/backend",
	})
	if err != nil {
		return nil, err
	}

	c := &Client{baseURL: baseURL, rest: rc}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger()
	}
	c.log = c.log.WithComponent("backend").WithFields(logger.Fields(logger.FieldBackendURL, baseURL))
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetStatus fetches the service status.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	var status *Status
	err := c.call(ctx, "status", func(ctx context.Context) error {
		resp, err := rest.Get[Status](ctx, c.rest, pathStatus)
		if err != nil {
			return errors.BackendUnreachable(rest.StatusText(err)).WithCause(err)
		}
		status = &resp.Data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// StartRecording asks the service to start capturing audio.
func (c *Client) StartRecording(ctx context.Context) error {
	return c.call(ctx, "start_recording", func(ctx context.Context) error {
		if err := c.post(ctx, pathStart, nil); err != nil {
			return errors.StartFailed(failureMessage(err, msgStartFailed)).WithCause(err)
		}
		return nil
	})
}

// StopRecording stops the capture and returns the transcription.
func (c *Client) StopRecording(ctx context.Context) (*TranscriptionResult, error) {
	return c.transcription(ctx, "stop_recording", func(ctx context.Context) (*TranscriptionResult, error) {
		resp, err := rest.Post[TranscriptionResult](ctx, c.rest, pathStop, nil)
		if err != nil {
			return nil, errors.StopFailed(failureMessage(err, msgStopFailed)).WithCause(err)
		}
		return &resp.Data, nil
	})
}

// GetLastTranscription returns the most recent transcription held by the service.
func (c *Client) GetLastTranscription(ctx context.Context) (*TranscriptionResult, error) {
	return c.transcription(ctx, "last_transcription", func(ctx context.Context) (*TranscriptionResult, error) {
		resp, err := rest.Get[TranscriptionResult](ctx, c.rest, pathTranscription)
		if err != nil {
			return nil, errors.NoTranscriptionAvailable(failureMessage(err, msgNoTranscription)).WithCause(err)
		}
		return &resp.Data, nil
	})
}

// UpdateConfig points the service at a model server and model.
func (c *Client) UpdateConfig(ctx context.Context, ollamaURL, model string) error {
	return c.call(ctx, "update_config", func(ctx context.Context) error {
		body := configUpdate{OllamaURL: ollamaURL, Model: model}
		if err := c.post(ctx, pathConfig, body); err != nil {
			return errors.ConfigUpdateFailed().WithCause(err)
		}
		return nil
	})
}

// IsReachable reports whether GetStatus succeeds. It never returns an error.
func (c *Client) IsReachable(ctx context.Context) bool {
	_, err := c.GetStatus(ctx)
	return err == nil
}

// EnableListenMode starts wake-phrase listening on the service. Enabling an
// already enabled listener succeeds.
func (c *Client) EnableListenMode(ctx context.Context) error {
	return c.listenMode(ctx, "listen_mode_enable", pathListenEnable, msgListenEnable)
}

// DisableListenMode stops wake-phrase listening on the service.
func (c *Client) DisableListenMode(ctx context.Context) error {
	return c.listenMode(ctx, "listen_mode_disable", pathListenDisable, msgListenDisable)
}

func (c *Client) listenMode(ctx context.Context, op, path, fallback string) error {
	return c.call(ctx, op, func(ctx context.Context) error {
		resp, err := rest.Post[listenModeResult](ctx, c.rest, path, nil)
		if err != nil {
			return errors.ListenModeFailed(failureMessage(err, fallback)).WithCause(err)
		}
		c.log.Debug("listen mode changed", logger.Fields(logger.FieldStatus, resp.Data.Status))
		return nil
	})
}

// post sends a request whose response body is not needed.
func (c *Client) post(ctx context.Context, path string, body any) error {
	_, err := c.rest.HTTP().Do(ctx, httpclient.Request{Method: http.MethodPost, Path: path, Body: body})
	return err
}

func (c *Client) transcription(ctx context.Context, op string, fn func(context.Context) (*TranscriptionResult, error)) (*TranscriptionResult, error) {
	var result *TranscriptionResult
	err := c.call(ctx, op, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// call runs fn inside a backend span and records its outcome.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanBackendCall,
		attribute.String(observability.AttrOperation, op),
		attribute.String(observability.AttrBackendURL, c.baseURL),
	)
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	c.metrics.RecordBackendCall(ctx, op, err, elapsed)
	if appErr, ok := errors.AsAppError(err); ok {
		span.SetAttributes(attribute.String(observability.AttrErrorCode, string(appErr.Code)))
	}
	observability.EndSpan(span, err)

	fields := logger.DurationFields(op, elapsed)
	if err != nil {
		c.log.WithError(err).Debug("backend call failed", fields)
	} else {
		c.log.Debug("backend call", fields)
	}
	return err
}

// failureMessage picks the service's {"error": ...} text, the transport
// error text when no response arrived, or fallback.
func failureMessage(err error, fallback string) string {
	if msg := rest.ErrorField(err, "error"); msg != "" {
		return msg
	}
	if rest.IsConnection(err) || rest.IsTimeout(err) {
		if text := rest.StatusText(err); text != "" {
			return text
		}
	}
	return fallback
}
