package paths

import (
	"os"
	"path/filepath"
)

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// AppDir returns ~/.vselect.
func AppDir() string {
	return filepath.Join(home(), ".vselect")
}

// ConfigFile returns ~/.vselect/config.yaml.
func ConfigFile() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// LogFile returns ~/.vselect/vselect.log.
func LogFile() string {
	return filepath.Join(AppDir(), "vselect.log")
}

// Resolve returns path unchanged when set, otherwise fallback. A leading ~/
// expands to the home directory.
func Resolve(path, fallback string) string {
	if path == "" {
		return fallback
	}
	if len(path) >= 2 && path[:2] == "~/" {
		return filepath.Join(home(), path[2:])
	}
	return path
}
