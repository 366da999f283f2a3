package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// SettingsStore persists Settings to a JSON data file.
type SettingsStore struct {
	path     string
	defaults Settings
	mu       sync.Mutex
}

// NewSettingsStore creates a store for the data file at path ("~" expanded).
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: ExpandHome(path), defaults: DefaultSettings()}
}

// Path returns the data file location.
func (s *SettingsStore) Path() string { return s.path }

// Load reads the data file and shallow-merges it over the defaults. A missing
// file yields the defaults.
func (s *SettingsStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := viper.New()
	for key, value := range s.defaults.defaultsByKey() {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(s.path); err == nil {
		v.SetConfigFile(s.path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings %s: %w", s.path, err)
		}
	} else if !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("stat settings %s: %w", s.path, err)
	}

	var out Settings
	if err := v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("decode settings %s: %w", s.path, err)
	}
	return out, nil
}

// Save writes settings atomically: a temp file in the same directory is
// renamed over the data file.
func (s *SettingsStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings %s: %w", s.path, err)
	}
	return nil
}
