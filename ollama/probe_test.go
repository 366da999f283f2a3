package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pgregory.net/rapid"
)

func tagsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathTags {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeFindsModel(t *testing.T) {
	srv := tagsServer(t, `{"models":[{"name":"llama3:8b"},{"name":"dimavz/whisper-tiny:latest"}]}`)

	got, err := Probe(context.Background(), srv.URL+"/", "dimavz/whisper-tiny")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Connected || !got.ModelAvailable {
		t.Errorf("expected connected with model, got %+v", got)
	}
	if len(got.Models) != 2 || got.Models[0] != "llama3:8b" {
		t.Errorf("unexpected models %v", got.Models)
	}
	if got.URL != srv.URL {
		t.Errorf("expected trailing slash stripped, got %s", got.URL)
	}
}

func TestProbeMissingModel(t *testing.T) {
	srv := tagsServer(t, `{"models":[{"name":"llama3:8b"}]}`)

	got, err := Probe(context.Background(), srv.URL, "dimavz/whisper-tiny")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Connected || got.ModelAvailable {
		t.Errorf("expected connected without model, got %+v", got)
	}
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got, err := Probe(context.Background(), url, "any")
	if err != nil {
		t.Fatalf("connection failures belong in the result, got %v", err)
	}
	if got.Connected || got.Error == "" {
		t.Errorf("expected disconnected with error, got %+v", got)
	}
}

func TestProbeInvalidURL(t *testing.T) {
	if _, err := Probe(context.Background(), "localhost", "any"); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		served, requested string
		want              bool
	}{
		{"whisper", "whisper", true},
		{"whisper:latest", "whisper", true},
		{"whisper", "whisper:latest", true},
		{"whisper:small", "whisper", false},
		{"whisper", "", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.served, tt.requested); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.served, tt.requested, got, tt.want)
		}
	}
}

func TestMatchesLatestTagProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[a-z][a-z0-9/-]{0,15}`).Draw(t, "name")
		if !Matches(name+":latest", name) || !Matches(name, name+":latest") || !Matches(name, name) {
			t.Fatalf("%q should match its :latest form", name)
		}
		tag := rapid.StringMatching(`[a-z0-9]{1,6}`).Filter(func(s string) bool { return s != "latest" }).Draw(t, "tag")
		if Matches(name+":"+tag, name) {
			t.Fatalf("%q:%q should not match an untagged request", name, tag)
		}
	})
}
