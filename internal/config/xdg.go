// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultLessonPath builds the default lesson file path for a lesson name.
func DefaultLessonPath(name string) string {
	return filepath.Join(XDGConfigHome(), "hantui", "lessons", name+".txt")
}

// DefaultLessonDir returns the default directory for lesson files.
func DefaultLessonDir() string {
	return filepath.Join(XDGConfigHome(), "hantui", "lessons")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "hantui", "hantui.db")
}

// DefaultContentCacheDir returns the cache directory for character metadata.
func DefaultContentCacheDir() string {
	return filepath.Join(XDGDataHome(), "hantui", "content")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "hantui", "config.toml")
}
