package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each request. Zero leaves requests unbounded; callers
	// use the context to cancel.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TracerName names the otel tracer used for client spans.
	TracerName string `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.TracerName == "" {
		c.TracerName = "voicenotes/httpclient"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: invalid base url %q", c.BaseURL)
		}
	}
	return nil
}
