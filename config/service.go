package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/voicenotes/logger"
)

// ServiceConfig contains the fields every voicenotes process needs.
// The application config embeds it:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Control ControlConfig `yaml:"control" mapstructure:"control"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

var validEnvironments = []string{"development", "staging", "production"}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs call it first from their own ApplyDefaults.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "voicenotes"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(validEnvironments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvironments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// GetServiceConfig returns the base configuration. Embedding structs satisfy
// bootstrap.Config through it.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}
