package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/notify"
	"github.com/kbukum/voicenotes/observability"
	"github.com/kbukum/voicenotes/server"
	"github.com/kbukum/voicenotes/vault"
)

// Config is the daemon configuration loaded from config.yml and
// VOICENOTES_* environment variables.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// DataFile holds the persisted plugin settings.
	DataFile      string               `yaml:"data_file" mapstructure:"data_file"`
	Vault         vault.Config         `yaml:"vault" mapstructure:"vault"`
	Control       server.Config        `yaml:"control" mapstructure:"control"`
	Backend       BackendConfig        `yaml:"backend" mapstructure:"backend"`
	Notifications notify.Config        `yaml:"notifications" mapstructure:"notifications"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// BackendConfig tunes the transcription service client.
type BackendConfig struct {
	// Timeout bounds each request; zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// CheckTimeout bounds the startup reachability check.
	CheckTimeout time.Duration `yaml:"check_timeout" mapstructure:"check_timeout"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.DataFile == "" {
		c.DataFile = filepath.Join(config.UserConfigDir(), "data.json")
	}
	c.Vault.ApplyDefaults()
	c.Control.ApplyDefaults()
	c.Notifications.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Control.Validate(); err != nil {
		return err
	}
	if c.Backend.Timeout < 0 || c.Backend.CheckTimeout < 0 {
		return fmt.Errorf("backend timeouts must not be negative")
	}
	return c.Observability.Validate()
}

func loadConfig(configFile, envFile string) (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig("voicenotes", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}
