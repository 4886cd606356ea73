package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitialize_CreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mdpad")
	t.Setenv(HomeEnv, dir)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	for _, path := range []string{SessionFile, SettingsFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	if DatabasePath != filepath.Join(dir, "mdpad.db") {
		t.Errorf("DatabasePath = %q", DatabasePath)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	SetPaths(t.TempDir())

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("LoadSettings() = %+v, want defaults", settings)
	}
}

func TestLoadSettings_PartialFile(t *testing.T) {
	SetPaths(t.TempDir())

	content := "theme: dracula\nword_wrap: -4\nlog_level: DEBUG\n"
	if err := os.WriteFile(SettingsFile, []byte(content), FilePermissions); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if settings.Theme != "dracula" {
		t.Errorf("Theme = %q, want dracula", settings.Theme)
	}
	if settings.WordWrap != 80 {
		t.Errorf("WordWrap = %d, want default 80", settings.WordWrap)
	}
	if settings.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", settings.LogLevel)
	}
	if !settings.ShowPreview {
		t.Error("ShowPreview should keep its default")
	}
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	SetPaths(t.TempDir())

	if err := os.WriteFile(SettingsFile, []byte("theme: [unclosed"), FilePermissions); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if settings.Theme != "light" {
		t.Errorf("expected defaults on error, got theme %q", settings.Theme)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	SetPaths(t.TempDir())

	want := DefaultSettings()
	want.Theme = "nord"
	want.PreviewAddr = "127.0.0.1:7777"

	if err := SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	got, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"notes.md", "notes.md"},
		{"  /tmp/a.md ", "/tmp/a.md"},
		{"~", home},
		{"~/docs/a.md", filepath.Join(home, "docs", "a.md")},
		{"~user/a.md", "~user/a.md"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
