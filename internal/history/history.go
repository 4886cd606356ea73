// Package history keeps the list of recently opened and saved documents
// in the application database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/mdpad/internal/config"
	"github.com/studiowebux/mdpad/internal/migrations"
)

// DefaultLimit is the number of entries shown in the recent files menu
const DefaultLimit = 10

// Action records what last happened to a document
type Action string

const (
	ActionOpen   Action = "open"
	ActionSave   Action = "save"
	ActionExport Action = "export"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Entry is one recently used document
type Entry struct {
	Path       string
	LastAction Action
	OpenCount  int
	Words      int
	UsedAt     time.Time
}

// Name returns the base name of the document
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Exists reports whether the document is still on disk
func (e Entry) Exists() bool {
	_, err := os.Stat(e.Path)
	return err == nil
}

type Manager struct {
	db  *sql.DB
	now func() time.Time
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, now: time.Now}, nil
}

// Record moves path to the top of the recent list. Paths are stored
// absolute so the same document opened from different directories is
// one entry.
func (m *Manager) Record(path string, action Action, words int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	opened := 0
	if action == ActionOpen {
		opened = 1
	}

	query := `
		INSERT INTO recent_files (path, last_action, open_count, word_count, used_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			last_action = excluded.last_action,
			open_count = recent_files.open_count + ?,
			word_count = excluded.word_count,
			used_at = excluded.used_at
	`

	_, err = m.db.Exec(query, abs, string(action), opened, words, m.now().Format(timestampFormat), opened)
	if err != nil {
		return fmt.Errorf("failed to record recent file: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recently used first
func (m *Manager) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := m.db.Query(`
		SELECT path, last_action, open_count, word_count, used_at
		FROM recent_files
		ORDER BY used_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent files: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var action, usedAt string
		if err := rows.Scan(&e.Path, &action, &e.OpenCount, &e.Words, &usedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent file: %w", err)
		}
		e.LastAction = Action(action)
		if t, err := time.ParseInLocation(timestampFormat, usedAt, time.Local); err == nil {
			e.UsedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove forgets a single document
func (m *Manager) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := m.db.Exec("DELETE FROM recent_files WHERE path = ?", abs); err != nil {
		return fmt.Errorf("failed to remove recent file: %w", err)
	}
	return nil
}

// Prune removes entries whose files no longer exist and returns how many
// were removed
func (m *Manager) Prune() (int, error) {
	rows, err := m.db.Query("SELECT path FROM recent_files")
	if err != nil {
		return 0, fmt.Errorf("failed to list recent files: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan recent file: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()

	removed := 0
	for _, p := range paths {
		if (Entry{Path: p}).Exists() {
			continue
		}
		if err := m.Remove(p); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Clear forgets every document
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM recent_files"); err != nil {
		return fmt.Errorf("failed to clear recent files: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}
