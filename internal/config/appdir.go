package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// EnvPrefix is the prefix of environment variables read by superscript
	EnvPrefix = "SUPERSCRIPT"

	// LockFileSuffix is appended to the config file name to form the lock file
	LockFileSuffix = ".lock"
)

// AppDir returns the application directory. An explicit home wins; otherwise the
// XDG config directory is used.
func AppDir(home string) string {
	if home != "" {
		return filepath.Clean(home)
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ConfigPath returns the superconfig file path inside the application directory
func ConfigPath(appDir string) string {
	return filepath.Join(appDir, DefaultConfigFile)
}
