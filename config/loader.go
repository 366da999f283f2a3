package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix marks the environment variables that override config.yml.
const EnvPrefix = "VOICENOTES_"

// FileSystem abstracts the file operations of the loader (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files.
type Resolver struct {
	FileSystem FileSystem
	// UserDir is searched after the working directory; defaults to UserConfigDir().
	UserDir string
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts when set, otherwise the
// first existing candidate for each file.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	userDir := r.UserDir
	if userDir == "" {
		userDir = UserConfigDir()
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(
			"./config.yml",
			fmt.Sprintf("./cmd/%s/config.yml", serviceName),
			"./config/config.yml",
			filepath.Join(userDir, "config.yml"),
		)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(
			fmt.Sprintf("./.env.%s", serviceName),
			"./.env",
			filepath.Join(userDir, ".env"),
		)
	}
	return resolved
}

func (r *Resolver) first(candidates ...string) string {
	for _, path := range candidates {
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads configuration for serviceName into cfg. A missing config
// file is not an error; an unreadable one is.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
	}

	// .env values never override variables already set in the environment.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", files.EnvFile, err)
		}
	}
	bindEnvOverrides(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnvOverrides sets every VOICENOTES_* variable on v under each nested
// key it could address.
func bindEnvOverrides(v *viper.Viper, environ []string) {
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		for _, variant := range envKeyVariants(strings.TrimPrefix(key, EnvPrefix)) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants maps an underscore-separated name onto the dotted keys it
// could mean:
//
//	VAULT_BASE_PATH -> [vault_base_path, vault.base.path, vault.base_path, vault_base.path]
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) == 1 {
		return []string{lowerKey}
	}

	seen := map[string]bool{}
	var variants []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			variants = append(variants, s)
		}
	}

	add(lowerKey)
	add(strings.Join(parts, "."))
	for i := 1; i < len(parts); i++ {
		add(strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_"))
		add(strings.Join(parts[:i], "_") + "." + strings.Join(parts[i:], "_"))
	}
	return variants
}
