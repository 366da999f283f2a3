package server

import (
	"fmt"

	"github.com/kbukum/voicenotes/server/middleware"
)

// Config holds control server configuration.
type Config struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	MaxBodySize  string `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "1MB"
	// Token, when set, is required as a Bearer token on every route except
	// the health and info endpoints.
	Token string `yaml:"token" mapstructure:"token"`
	// CommandsPerMinute caps command executions per client. Zero disables the limit.
	CommandsPerMinute int                   `yaml:"commands_per_minute" mapstructure:"commands_per_minute"`
	CORS              middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8766
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.CommandsPerMinute == 0 {
		c.CommandsPerMinute = 120
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("control.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("control.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("control.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("control.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if c.CommandsPerMinute < 0 {
		return fmt.Errorf("control.commands_per_minute must be non-negative (got: %d)", c.CommandsPerMinute)
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
