package vault

import (
	"errors"
	"fmt"
)

// Provider constants for supported vault backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Default configuration values.
const (
	DefaultProvider = ProviderLocal
	DefaultBasePath = "~/Documents/Voice Notes"
	DefaultRegion   = "us-east-1"
)

// Config holds vault configuration.
type Config struct {
	// Provider selects the backend: "local" or "s3".
	Provider string `mapstructure:"provider" json:"provider"`

	// BasePath is the notes folder for the local provider.
	BasePath string `mapstructure:"base_path" json:"base_path"`

	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" json:"bucket"`

	// Prefix is prepended to every S3 key.
	Prefix string `mapstructure:"prefix" json:"prefix"`

	// Region is the AWS region for S3.
	Region string `mapstructure:"region" json:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`

	// AccessKey is the AWS access key ID.
	AccessKey string `mapstructure:"access_key" json:"access_key"`

	// SecretKey is the AWS secret access key.
	SecretKey string `mapstructure:"secret_key" json:"-"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	ForcePathStyle bool `mapstructure:"force_path_style" json:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Provider == ProviderLocal && c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Provider == ProviderS3 && c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("vault: base_path is required for local provider")
		}
	case ProviderS3:
		var errs []error
		if c.Bucket == "" {
			errs = append(errs, errors.New("vault: bucket is required for s3 provider"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("vault: region is required for s3 provider"))
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			errs = append(errs, errors.New("vault: access_key and secret_key must be set together"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("vault: invalid s3 config: %w", errors.Join(errs...))
		}
	default:
		return fmt.Errorf("vault: unsupported provider %q", c.Provider)
	}
	return nil
}
