package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicenotes/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Debug: true}
	cfg.ApplyDefaults()
	if cfg.Name != "voicenotes" {
		t.Errorf("expected name 'voicenotes', got %q", cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug logging when Debug is set, got %q", cfg.Logging.Level)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "voicenotes", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

type testAppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	DataFile      string        `mapstructure:"data_file"`
	Control       testControl   `mapstructure:"control"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type testControl struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func TestLoadConfigWithYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	yamlContent := `
name: voicenotes
environment: staging
data_file: /tmp/data.json
timeout: 2s
control:
  host: 127.0.0.1
  port: 8766
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("VOICENOTES_CONTROL_PORT", "9000")

	var cfg testAppConfig
	if err := LoadConfig("voicenotes", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.DataFile != "/tmp/data.json" {
		t.Errorf("expected data_file from yaml, got %q", cfg.DataFile)
	}
	if cfg.Control.Host != "127.0.0.1" {
		t.Errorf("expected host from yaml, got %q", cfg.Control.Host)
	}
	if cfg.Control.Port != 9000 {
		t.Errorf("expected env override port 9000, got %d", cfg.Control.Port)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.Timeout)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("VOICENOTES_DATA_FILE=/from/env.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load sets process variables; register cleanup through t.Setenv.
	t.Setenv("VOICENOTES_DATA_FILE", "")
	os.Unsetenv("VOICENOTES_DATA_FILE")

	var cfg testAppConfig
	if err := LoadConfig("voicenotes", &cfg, WithConfigFile(filepath.Join(dir, "none.yml")), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DataFile != "/from/env.json" {
		t.Errorf("expected data_file from .env, got %q", cfg.DataFile)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testAppConfig
	if err := LoadConfig("voicenotes", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error { return nil }

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/voicenotes/config.yml":           true,
		"/home/u/.config/voicenotes/config.yml": true,
		"/home/u/.config/voicenotes/.env":       true,
	}}
	resolver := &Resolver{FileSystem: fs, UserDir: "/home/u/.config/voicenotes"}
	files := resolver.ResolveFiles("voicenotes", LoaderConfig{})
	if files.ConfigFile != "./cmd/voicenotes/config.yml" {
		t.Errorf("expected working-directory config first, got %q", files.ConfigFile)
	}
	if files.EnvFile != "/home/u/.config/voicenotes/.env" {
		t.Errorf("expected user-dir env file, got %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("voicenotes", LoaderConfig{ConfigFile: "/etc/vn.yml"})
	if explicit.ConfigFile != "/etc/vn.yml" {
		t.Errorf("expected explicit config file to win, got %q", explicit.ConfigFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("VAULT_BASE_PATH")
	for _, want := range []string{"vault_base_path", "vault.base.path", "vault.base_path"} {
		found := false
		for _, v := range variants {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", want, variants)
		}
	}
	if got := envKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("expected single variant for NAME, got %v", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/notes"); got != filepath.Join(home, "notes") {
		t.Errorf("expected %s, got %s", filepath.Join(home, "notes"), got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expected absolute path unchanged, got %s", got)
	}
}

func TestSettingsStoreLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "data.json"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != DefaultSettings() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestSettingsStoreShallowMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	content := `{"backendUrl": "http://10.0.0.2:8765", "wakePhrase": "", "autoStartListening": true}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewSettingsStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defaults := DefaultSettings()
	if got.BackendURL != "http://10.0.0.2:8765" {
		t.Errorf("expected persisted backendUrl, got %q", got.BackendURL)
	}
	if got.WakePhrase != "" {
		t.Errorf("expected explicitly empty wakePhrase to win, got %q", got.WakePhrase)
	}
	if !got.AutoStartListening {
		t.Error("expected autoStartListening=true")
	}
	if got.ModelName != defaults.ModelName || got.TargetNoteName != defaults.TargetNoteName {
		t.Errorf("expected missing keys to take defaults, got %+v", got)
	}
}

func TestSettingsStoreSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	store := NewSettingsStore(path)

	s := DefaultSettings()
	s.ModelName = "whisper-small"
	s.TargetNoteName = "Inbox/Dictation.md"
	if err := store.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected data file: %v", err)
	}
	var persisted map[string]any
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("data file is not json: %v", err)
	}
	for _, key := range []string{KeyBackendURL, KeyOllamaURL, KeyModelName, KeyTargetNoteName, KeyWakePhrase, KeyStopPhrase, KeyAutoStartListening} {
		if _, ok := persisted[key]; !ok {
			t.Errorf("expected persisted key %q", key)
		}
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != s {
		t.Errorf("expected %+v, got %+v", s, got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestSettingsStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSettingsStore(path).Load(); err == nil {
		t.Fatal("expected error for malformed data file")
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	s := DefaultSettings()
	s.BackendURL = "not-a-url"
	s.TargetNoteName = ""
	err := s.Validate()
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	msg := errors.Message(err)
	if !strings.Contains(msg, "backendUrl") || !strings.Contains(msg, "targetNoteName") {
		t.Errorf("expected both fields reported, got %q", msg)
	}
}
