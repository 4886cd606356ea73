package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds user preferences read from settings.yaml
type Settings struct {
	Theme          string `yaml:"theme"`
	ShowPreview    bool   `yaml:"show_preview"`
	WordWrap       int    `yaml:"word_wrap"`
	PreviewAddr    string `yaml:"preview_addr,omitempty"` // empty disables the browser preview
	HistoryEnabled bool   `yaml:"history_enabled"`
	MessageTimeout int    `yaml:"message_timeout"` // seconds, 0 keeps messages until replaced
	LogLevel       string `yaml:"log_level"`       // debug, info, warn, error, off
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	return Settings{
		Theme:          "light",
		ShowPreview:    true,
		WordWrap:       80,
		HistoryEnabled: true,
		MessageTimeout: 5,
		LogLevel:       "info",
	}
}

// LoadSettings reads settings.yaml, filling unset fields with defaults
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(SettingsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file %s: %w", SettingsFile, err)
	}

	settings.normalize()
	return settings, nil
}

// SaveSettings writes settings.yaml
func SaveSettings(settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(SettingsFile, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

func (s *Settings) normalize() {
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Theme) == "" {
		s.Theme = defaults.Theme
	}
	if s.WordWrap <= 0 {
		s.WordWrap = defaults.WordWrap
	}
	if s.MessageTimeout < 0 {
		s.MessageTimeout = 0
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	if s.LogLevel == "" {
		s.LogLevel = defaults.LogLevel
	}
}
