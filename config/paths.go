package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// UserConfigDir returns the per-user voicenotes configuration directory.
func UserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ExpandHome("~/.config/voicenotes")
	}
	return filepath.Join(dir, "voicenotes")
}
