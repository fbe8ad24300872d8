package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If VPACK_LOG_FILE is set, uses that path, then configured, then
// $XDG_STATE_HOME/vpack/vpack.log. An empty result disables file logging.
func GetLogFilePath(configured string) string {
	if customPath := os.Getenv("VPACK_LOG_FILE"); customPath != "" {
		return customPath
	}
	if configured != "" {
		return configured
	}

	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateDir, "vpack", "vpack.log")
}
