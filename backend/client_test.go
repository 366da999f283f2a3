package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL + "/"}, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewStripsTrailingSlash(t *testing.T) {
	c, err := New(Config{URL: "http://x:1/"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.BaseURL() != "http://x:1" {
		t.Errorf("expected http://x:1, got %q", c.BaseURL())
	}
}

func TestNewRequestsUseNormalizedURL(t *testing.T) {
	var path atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		writeJSON(w, http.StatusOK, Status{Service: "running"})
	})
	if _, err := c.GetStatus(context.Background()); err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if got := path.Load(); got != "/status" {
		t.Errorf("expected /status, got %v", got)
	}
}

func TestNewRejectsInvalidURL(t *testing.T) {
	if _, err := New(Config{URL: "localhost:8765"}); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}

func TestGetStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "voicenotes/") {
			t.Errorf("unexpected user agent %q", ua)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"service":               "running",
			"ollama_connected":      true,
			"model_available":       false,
			"is_recording":          true,
			"listen_mode_enabled":   true,
			"listen_mode_listening": false,
			"timestamp":             "2026-10-18T09:00:00",
		})
	})

	status, err := c.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	want := Status{
		Service:           "running",
		OllamaConnected:   true,
		IsRecording:       true,
		ListenModeEnabled: true,
		Timestamp:         "2026-10-18T09:00:00",
	}
	if *status != want {
		t.Errorf("expected %+v, got %+v", want, *status)
	}
}

func TestGetStatusFailureCarriesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetStatus(context.Background())
	if !errors.IsCode(err, errors.ErrCodeBackendUnreachable) {
		t.Fatalf("expected BACKEND_UNREACHABLE, got %v", err)
	}
	if msg := errors.Message(err); msg != "Backend request failed: Service Unavailable" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestGetStatusConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{URL: url})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.GetStatus(context.Background())
	if !errors.IsCode(err, errors.ErrCodeBackendUnreachable) {
		t.Fatalf("expected BACKEND_UNREACHABLE, got %v", err)
	}
	if !strings.HasPrefix(errors.Message(err), "Backend request failed: ") {
		t.Errorf("unexpected message %q", errors.Message(err))
	}
	if c.IsReachable(context.Background()) {
		t.Error("expected unreachable backend")
	}
}

func TestStartRecording(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/start-recording" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if body, _ := io.ReadAll(r.Body); len(body) != 0 {
			t.Errorf("expected no body, got %q", body)
		}
		// Success bodies are ignored, even when they are not JSON.
		_, _ = io.WriteString(w, "ok")
	})
	if err := c.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
}

func TestOperationErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		call     func(*Client) error
		wantCode errors.ErrorCode
		wantMsg  string
	}{
		{
			name: "start with error body", status: http.StatusBadRequest, body: `{"error":"Already recording"}`,
			call:     func(c *Client) error { return c.StartRecording(context.Background()) },
			wantCode: errors.ErrCodeStartFailed, wantMsg: "Already recording",
		},
		{
			name: "start without error field", status: http.StatusInternalServerError, body: `{}`,
			call:     func(c *Client) error { return c.StartRecording(context.Background()) },
			wantCode: errors.ErrCodeStartFailed, wantMsg: "Failed to start recording",
		},
		{
			name: "stop with error body", status: http.StatusBadRequest, body: `{"error":"Not currently recording"}`,
			call: func(c *Client) error {
				_, err := c.StopRecording(context.Background())
				return err
			},
			wantCode: errors.ErrCodeStopFailed, wantMsg: "Not currently recording",
		},
		{
			name: "stop with plain text body", status: http.StatusBadGateway, body: `upstream down`,
			call: func(c *Client) error {
				_, err := c.StopRecording(context.Background())
				return err
			},
			wantCode: errors.ErrCodeStopFailed, wantMsg: "Failed to stop recording",
		},
		{
			name: "last transcription missing", status: http.StatusNotFound, body: `{"error":"No transcription available"}`,
			call: func(c *Client) error {
				_, err := c.GetLastTranscription(context.Background())
				return err
			},
			wantCode: errors.ErrCodeNoTranscription, wantMsg: "No transcription available",
		},
		{
			name: "config update rejected", status: http.StatusBadRequest, body: `{"error":"bad model"}`,
			call:     func(c *Client) error { return c.UpdateConfig(context.Background(), "http://o:1", "m") },
			wantCode: errors.ErrCodeConfigUpdateFailed, wantMsg: "Failed to update backend config",
		},
		{
			name: "listen mode unavailable", status: http.StatusInternalServerError, body: `{"error":"Wake word listener not available"}`,
			call:     func(c *Client) error { return c.EnableListenMode(context.Background()) },
			wantCode: errors.ErrCodeListenModeFailed, wantMsg: "Wake word listener not available",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			err := tc.call(c)
			if !errors.IsCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
			if msg := errors.Message(err); msg != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestStopRecordingReturnsTranscription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/stop-recording" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, TranscriptionResult{Status: "ok", Transcription: "hello world", Timestamp: "t"})
	})

	result, err := c.StopRecording(context.Background())
	if err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}
	if result.Transcription != "hello world" || result.Status != "ok" || result.Timestamp != "t" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestGetLastTranscription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/transcription" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, TranscriptionResult{Status: "success", Transcription: "again"})
	})

	result, err := c.GetLastTranscription(context.Background())
	if err != nil {
		t.Fatalf("GetLastTranscription failed: %v", err)
	}
	if result.Transcription != "again" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestUpdateConfigBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/config" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["ollama_url"] != "http://localhost:11434" || body["model"] != "dimavz/whisper-tiny" {
			t.Errorf("unexpected body %v", body)
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated", "model": body["model"]})
	})

	if err := c.UpdateConfig(context.Background(), "http://localhost:11434", "dimavz/whisper-tiny"); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}
}

func TestIsReachable(t *testing.T) {
	ok := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Status{Service: "running"})
	})
	if !ok.IsReachable(context.Background()) {
		t.Error("expected reachable backend")
	}

	failing := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if failing.IsReachable(context.Background()) {
		t.Error("expected unreachable backend on 500")
	}

	garbage := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	})
	if garbage.IsReachable(context.Background()) {
		t.Error("expected unreachable backend on undecodable status")
	}
}

func TestListenMode(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_enabled"})
	})

	if err := c.EnableListenMode(context.Background()); err != nil {
		t.Fatalf("EnableListenMode failed: %v", err)
	}
	if err := c.DisableListenMode(context.Background()); err != nil {
		t.Fatalf("DisableListenMode failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 2 || paths[0] != "/listen-mode/enable" || paths[1] != "/listen-mode/disable" {
		t.Errorf("unexpected paths %v", paths)
	}
}

func TestCallsAreMetered(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Status{Service: "running"})
	}, WithMetrics(metrics))
	c.IsReachable(context.Background())
	c.IsReachable(context.Background())

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var calls int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "voicenotes.backend.calls" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				calls += dp.Value
			}
		}
	}
	if calls != 2 {
		t.Errorf("expected 2 recorded calls, got %d", calls)
	}
}
