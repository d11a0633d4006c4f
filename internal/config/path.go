// Package config holds configuration keys, defaults and loaders for the rupee CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath returns the configured database location, expanded. ":memory:" is passed through.
func DatabasePath(v *viper.Viper) string {
	p := v.GetString(KeyDatabasePath)
	if p == "" {
		p = DefaultDatabasePath
	}
	if p == ":memory:" {
		return p
	}
	return ExpandPath(p)
}

// ConfigDir is the directory searched for config.yaml.
func ConfigDir() string {
	return ExpandPath("~/.config/rupee")
}
