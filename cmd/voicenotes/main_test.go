package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/host/httphost"
	"github.com/kbukum/voicenotes/httpclient/sse"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "name: voicenotes\nenvironment: production\ncontrol:\n  port: 9100\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Control.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Control.Port)
	}
	if cfg.Control.Host != "127.0.0.1" {
		t.Errorf("expected loopback host, got %q", cfg.Control.Host)
	}
	if cfg.Vault.Provider != "local" {
		t.Errorf("expected local vault, got %q", cfg.Vault.Provider)
	}
	if filepath.Base(cfg.DataFile) != "data.json" {
		t.Errorf("expected data.json default, got %q", cfg.DataFile)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("environment: qa\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path, filepath.Join(dir, "missing.env")); err == nil {
		t.Fatal("expected an error for an unknown environment")
	}
}

func TestParseSettingsArgs(t *testing.T) {
	patch, err := parseSettingsArgs([]string{
		"targetNoteName=Inbox.md",
		"autoStartListening=true",
		"backendUrl=http://localhost:9000",
	})
	if err != nil {
		t.Fatalf("parseSettingsArgs: %v", err)
	}
	if patch[config.KeyTargetNoteName] != "Inbox.md" {
		t.Errorf("unexpected note name %v", patch[config.KeyTargetNoteName])
	}
	if patch[config.KeyAutoStartListening] != true {
		t.Errorf("expected bool true, got %#v", patch[config.KeyAutoStartListening])
	}
	if patch[config.KeyBackendURL] != "http://localhost:9000" {
		t.Errorf("unexpected backend url %v", patch[config.KeyBackendURL])
	}
}

func TestParseSettingsArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{"missing equals", "targetNoteName"},
		{"empty key", "=x"},
		{"unknown key", "color=blue"},
		{"bad bool", "autoStartListening=maybe"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseSettingsArgs([]string{tc.arg})
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeInvalidInput {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestControlClientUnwrapsEnvelope(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"data": httphost.CommandResponse{
			Command:   "toggle-voice-recording",
			State:     "recording",
			Indicator: host.IndicatorState{Text: "🔴 Recording...", Recording: true},
		}})
	}))
	defer srv.Close()

	c, err := newControlClient(strings.TrimPrefix(srv.URL, "http://"), "secret")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Execute(context.Background(), "toggle-voice-recording")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if gotPath != "/commands/toggle-voice-recording" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if resp.State != "recording" || !resp.Indicator.Recording {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestControlClientRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errors.NoTranscriptionAvailable("No transcription available").ToResponse())
	}))
	defer srv.Close()

	c, err := newControlClient(srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.LastTranscription(context.Background())
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.ErrCodeNoTranscription || appErr.HTTPStatus != http.StatusNotFound {
		t.Errorf("unexpected error %+v", appErr)
	}
	if errors.Message(err) != "No transcription available" {
		t.Errorf("unexpected message %q", errors.Message(err))
	}
}

func TestControlClientDaemonDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := newControlClient(addr, "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Status(context.Background())
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("expected service unavailable, got %v", err)
	}
}

func TestControlClientWatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("event: connected\ndata: {}\n\n"))
		_, _ = w.Write([]byte("event: indicator\ndata: {\"text\":\"Voice Notes Ready\"}\n\n"))
		_, _ = w.Write([]byte("event: notice\ndata: {\"message\":\"Saved\",\"level\":\"info\"}\n\n"))
	}))
	defer srv.Close()

	c, err := newControlClient(srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	err = c.Watch(context.Background(), func(ev *sse.Event) error {
		return printEvent(&out, ev)
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	want := "[connected]\n[status] Voice Notes Ready\n[info] Saved\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "usage: voicenotes") {
		t.Errorf("expected usage text, got %q", stderr.String())
	}

	stderr.Reset()
	if code := run(context.Background(), []string{"dance"}, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit code 2 for unknown command, got %d", code)
	}
	if !strings.Contains(stderr.String(), `unknown command "dance"`) {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr.String())
	}
	if stdout.Len() == 0 {
		t.Error("expected version output")
	}
}

func TestRunStatusAgainstDaemon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			writeJSON(w, http.StatusNotFound, errors.NotFound("route", r.URL.Path).ToResponse())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": httphost.StatusResponse{
			Indicator: host.IndicatorState{Text: "Voice Notes Ready"},
			State:     "idle",
		}})
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	args := []string{"-addr", srv.URL, "-token", "t", "status"}
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Voice Notes Ready") || !strings.Contains(stdout.String(), "idle") {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestRunReportsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, errors.ServiceUnavailable("voice notes plugin").ToResponse())
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	args := []string{"-addr", srv.URL, "-token", "t", "toggle"}
	if code := run(context.Background(), args, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.HasPrefix(stderr.String(), "voicenotes toggle: ") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}
