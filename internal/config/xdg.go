// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/constants"
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

// DefaultConfigPath honours HABITUAL_CONFIG before the XDG location.
func DefaultConfigPath() string {
	if v := os.Getenv(constants.EnvConfigPath); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), constants.AppName, "config.toml")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), constants.AppName, constants.AppName+".db")
}

func DefaultLogDir() string {
	return filepath.Join(XDGDataHome(), constants.AppName, "logs")
}
