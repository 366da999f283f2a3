package observability

import (
	"fmt"
	"time"
)

// Config enables and points the OTLP exporters.
type Config struct {
	Tracing    bool          `yaml:"tracing" mapstructure:"tracing"`
	Metrics    bool          `yaml:"metrics" mapstructure:"metrics"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate validates observability configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be within [0, 1] (got: %v)", c.SampleRate)
	}
	if c.Interval < 0 {
		return fmt.Errorf("observability.interval must not be negative")
	}
	return nil
}
