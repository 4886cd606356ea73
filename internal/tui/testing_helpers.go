package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mdpad/internal/config"
	"github.com/studiowebux/mdpad/internal/history"
	"github.com/studiowebux/mdpad/internal/session"
)

// testClipboard records what the model copied
type testClipboard struct {
	text  string
	calls int
	err   error
}

func (c *testClipboard) write(text string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// CreateTestModel creates a Model with its configuration directory, session
// and recent files database in a temporary directory. The model is sized
// as a 120x40 terminal.
func CreateTestModel(t *testing.T) *Model {
	t.Helper()
	return CreateTestModelWithOptions(t, Options{})
}

// CreateTestModelWithOptions is CreateTestModel with caller-provided
// options. Session and history are filled in when nil.
func CreateTestModelWithOptions(t *testing.T, opts Options) *Model {
	t.Helper()

	tempDir := t.TempDir()
	originalDir := config.ConfigDir
	config.SetPaths(tempDir)
	t.Cleanup(func() {
		config.SetPaths(originalDir)
	})

	if opts.Settings == (config.Settings{}) {
		opts.Settings = config.DefaultSettings()
		opts.Settings.MessageTimeout = 0
	}
	if opts.Session == nil {
		opts.Session = session.NewManagerAt(filepath.Join(tempDir, "session.json"))
	}
	if opts.History == nil {
		mgr, err := history.NewManager(filepath.Join(tempDir, "mdpad.db"))
		if err != nil {
			t.Fatalf("Failed to open recent files database: %v", err)
		}
		opts.History = mgr
	}

	m := New(opts)
	m.copyToClipboard = (&testClipboard{}).write
	t.Cleanup(m.Cleanup)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// WriteTestFile writes content to name inside a fresh temporary directory
// and returns its path
func WriteTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file %s: %v", name, err)
	}
	return path
}

// TypeText sends s to the model one key at a time
func TypeText(m *Model, s string) {
	for _, r := range s {
		if r == '\n' {
			m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// PressKey sends a single key and returns the resulting command
func PressKey(m *Model, key tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(key)
	return cmd
}

// Alt builds an alt+<r> key
func Alt(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

// Rune builds a plain printable key
func Rune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// IsQuit reports whether cmd ends the program
func IsQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
