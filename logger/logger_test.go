package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json", Output: "stdout"}, "voicenotes", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestJSONOutputCarriesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info").WithComponent("recording")
	l.Info("recording started", Fields(FieldBackendURL, "http://localhost:8765"))

	m := decodeLine(t, &buf)
	if m["service"] != "voicenotes" {
		t.Errorf("expected service field, got %v", m["service"])
	}
	if m[FieldComponent] != "recording" {
		t.Errorf("expected component=recording, got %v", m[FieldComponent])
	}
	if m[FieldBackendURL] != "http://localhost:8765" {
		t.Errorf("expected backend_url field, got %v", m[FieldBackendURL])
	}
	if m["message"] != "recording started" {
		t.Errorf("unexpected message %v", m["message"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn to be written, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "loud")
	l.Debug("hidden")
	l.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("expected info-level filtering, got %q", out)
	}
}

func TestWithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	jsonLogger(&buf, "info").WithContext(ctx).Info("handled")

	if m := decodeLine(t, &buf); m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id=req-1, got %v", m[FieldRequestID])
	}
}

func TestWithContextWithoutRequestID(t *testing.T) {
	l := NewDefault("test")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when the context carries no request id")
	}
}

func TestWithErrorAndFields(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").
		WithFields(map[string]any{FieldDocument: "Voice Notes.md"}).
		WithError(fmt.Errorf("disk full")).
		Error("append failed")

	m := decodeLine(t, &buf)
	if m[FieldDocument] != "Voice Notes.md" {
		t.Errorf("expected document field, got %v", m[FieldDocument])
	}
	if m[FieldError] != "disk full" {
		t.Errorf("expected error field, got %v", m[FieldError])
	}
}

func TestConsoleFormatUsesLevelTags(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "voicenotes", &buf)
	l.Warn("backend not running")
	if !strings.Contains(buf.String(), "[WRN]") {
		t.Errorf("expected [WRN] tag, got %q", buf.String())
	}
}

func TestGlobalLogger(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	Init(Config{Level: "debug", Format: "json"}, "voicenotes")
	if GetGlobalLogger() == l {
		t.Error("expected Init to replace the global logger")
	}
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	if WithComponent("plugin") == nil {
		t.Error("expected component logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid pretty", Config{Level: "debug", Format: "pretty", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []any
		expected map[string]any
	}{
		{"key-value pairs", []any{"op", "save", "id", 42}, map[string]any{"op": "save", "id": 42}},
		{"odd number of args", []any{"op", "save", "trailing"}, map[string]any{"op": "save"}},
		{"non-string key skipped", []any{123, "value", "key", "val"}, map[string]any{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %v", len(tc.expected), result)
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("append", fmt.Errorf("something broke"))
	if ef[FieldOperation] != "append" || ef[FieldError] != "something broke" {
		t.Errorf("unexpected error fields %v", ef)
	}

	df := DurationFields("stop-recording", 150*time.Millisecond)
	if df[FieldOperation] != "stop-recording" || df[FieldDuration] != int64(150) {
		t.Errorf("unexpected duration fields %v", df)
	}
}
