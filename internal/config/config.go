package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// HomeEnv overrides the configuration directory when set
	HomeEnv = "MDPAD_HOME"
)

var (
	// ConfigDir is the global configuration directory (~/.mdpad)
	ConfigDir string

	// DatabasePath is the SQLite database file for recent files
	DatabasePath string

	// SessionFile is the session state file
	SessionFile string

	// SettingsFile is the user settings file (YAML)
	SettingsFile string

	// KeybindsFile is the keybinding override file (JSON with comments)
	KeybindsFile string

	// ThemesFile holds user theme additions and overrides (YAML)
	ThemesFile string

	// LogFile is where the TUI writes its structured log
	LogFile string
)

// Initialize sets up the configuration directory and files
// It creates ~/.mdpad/ (or $MDPAD_HOME) if it doesn't exist
func Initialize() error {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".mdpad")
	}

	SetPaths(dir)

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		defaultSession := []byte(`{"theme":"light","showPreview":true}`)
		if err := os.WriteFile(SessionFile, defaultSession, FilePermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	// Write default settings so users have something to edit
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		if err := SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// SetPaths points every configuration path at dir without touching the disk
func SetPaths(dir string) {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "mdpad.db")
	SessionFile = filepath.Join(ConfigDir, "session.json")
	SettingsFile = filepath.Join(ConfigDir, "settings.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	ThemesFile = filepath.Join(ConfigDir, "themes.yaml")
	LogFile = filepath.Join(ConfigDir, "mdpad.log")
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[2:]), nil
}
