package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/studiowebux/mdpad/internal/config"
)

const maxRecentFiles = 10

// Session is the UI state restored on the next start
type Session struct {
	Theme          string   `json:"theme"`
	ShowPreview    bool     `json:"showPreview"`
	ShowHTMLSource bool     `json:"showHtmlSource,omitempty"`
	LastFile       string   `json:"lastFile,omitempty"`
	HistoryEnabled *bool    `json:"historyEnabled,omitempty"`
	RecentFiles    []string `json:"recentFiles,omitempty"` // used when the history database is unavailable
}

// Manager loads and saves the session file
type Manager struct {
	path    string
	session *Session
}

// NewManager creates a session manager for the configured session file
func NewManager() *Manager {
	return NewManagerAt(config.SessionFile)
}

// NewManagerAt creates a session manager for an explicit file
func NewManagerAt(path string) *Manager {
	return &Manager{path: path, session: defaultSession()}
}

func defaultSession() *Session {
	return &Session{Theme: "light", ShowPreview: true}
}

// Load reads the session file. A missing file leaves the defaults in place.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.session = defaultSession()
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	session := defaultSession()
	if err := json.Unmarshal(data, session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	if session.Theme == "" {
		session.Theme = "light"
	}

	m.session = session
	return nil
}

// Save writes the session to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Get returns the current session
func (m *Manager) Get() *Session {
	return m.session
}

// SetTheme records the selected theme
func (m *Manager) SetTheme(id string) error {
	m.session.Theme = id
	return m.Save()
}

// SetPreview records the preview pane state
func (m *Manager) SetPreview(show, htmlSource bool) error {
	m.session.ShowPreview = show
	m.session.ShowHTMLSource = htmlSource
	return m.Save()
}

// SetLastFile records the document to reopen on the next start
func (m *Manager) SetLastFile(path string) error {
	m.session.LastFile = path
	return m.Save()
}

// IsHistoryEnabled returns whether recent file tracking is enabled
func (m *Manager) IsHistoryEnabled() bool {
	if m.session.HistoryEnabled == nil {
		return true
	}
	return *m.session.HistoryEnabled
}

// SetHistoryEnabled sets whether recent file tracking is enabled
func (m *Manager) SetHistoryEnabled(enabled bool) error {
	m.session.HistoryEnabled = &enabled
	return m.Save()
}

// AddRecentFile adds a file to the front of the MRU list, removing
// duplicates and keeping at most 10 entries
func (m *Manager) AddRecentFile(filePath string) error {
	recent := []string{filePath}
	for _, f := range m.session.RecentFiles {
		if f != filePath {
			recent = append(recent, f)
		}
	}

	if len(recent) > maxRecentFiles {
		recent = recent[:maxRecentFiles]
	}

	m.session.RecentFiles = recent
	return m.Save()
}

// GetRecentFiles returns the MRU file list
func (m *Manager) GetRecentFiles() []string {
	if m.session.RecentFiles == nil {
		return []string{}
	}
	return m.session.RecentFiles
}
