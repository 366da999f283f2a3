package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/voicenotes/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("name", "Voice Notes.md").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("name", "").HasErrors() {
		t.Error("expected error for empty required field")
	}
	if !New().Required("name", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorHTTPURL(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"http://localhost:8765", false},
		{"https://backend.example.com/", false},
		{"", false},
		{"localhost:8765", true},
		{"ftp://localhost", true},
		{"http://", true},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			v := New().HTTPURL("backendUrl", tc.value)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HTTPURL(%q) errors = %v, wantErr %v", tc.value, v.Errors(), tc.wantErr)
			}
		})
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	if New().OptionalUUID("id", "").HasErrors() {
		t.Error("expected no error for empty optional UUID")
	}
	if New().OptionalUUID("id", uuid.New().String()).HasErrors() {
		t.Error("expected no error for valid optional UUID")
	}
	if !New().OptionalUUID("id", "bad-uuid").HasErrors() {
		t.Error("expected error for invalid optional UUID")
	}
}

func TestValidatorPatternAndLength(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z-]+$`)

	v := New().Pattern("id", "toggle-voice-recording", pattern).MaxLength("id", "toggle-voice-recording", 64)
	if v.HasErrors() {
		t.Errorf("unexpected errors %v", v.Errors())
	}
	if !New().Pattern("id", "Toggle!", pattern).HasErrors() {
		t.Error("expected error for non-matching pattern")
	}
	if New().Pattern("id", "", pattern).HasErrors() {
		t.Error("expected no error for empty value with pattern")
	}
	if !New().MaxLength("id", strings.Repeat("a", 65), 64).HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"local", "s3"}
	if New().OneOf("provider", "s3", allowed).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if !New().OneOf("provider", "gcs", allowed).HasErrors() {
		t.Error("expected error for disallowed value")
	}
}

func TestValidatorValidateBuildsAppError(t *testing.T) {
	v := New()
	if v.Validate() != nil {
		t.Fatal("expected nil error without field errors")
	}

	v.Required("modelName", "").Custom(false, "wakePhrase", "must differ from stopPhrase")
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "modelName: is required") ||
		!strings.Contains(appErr.Message, "wakePhrase: must differ from stopPhrase") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected two field errors in details, got %v", appErr.Details["fields"])
	}
}

type sample struct {
	BackendURL string `json:"backendUrl" validate:"required,url"`
	Document   string `json:"targetNoteName" validate:"required"`
	Provider   string `json:"provider" validate:"omitempty,oneof=local s3"`
}

func TestValidateStruct(t *testing.T) {
	if err := Validate(sample{BackendURL: "http://localhost:8765", Document: "Voice Notes.md"}); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}

	err := Validate(sample{BackendURL: "not a url", Provider: "gcs"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	for _, want := range []string{"backendUrl: must be a valid URL", "targetNoteName: is required", "provider: must be one of: local s3"} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("expected message to contain %q, got %q", want, appErr.Message)
		}
	}
}
