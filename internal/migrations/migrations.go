// Package migrations keeps the recent files database schema current.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"
)

// Migration is one schema change, applied once in Version order
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// AllMigrations lists every migration, oldest first
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "index recent_files by last action",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_recent_files_action ON recent_files(last_action);`,
	},
	{
		Version: 2,
		Name:    "drop recent entries with a blank path",
		SQL:     `DELETE FROM recent_files WHERE TRIM(path) = '';`,
	},
}

const baseSchema = `
CREATE TABLE IF NOT EXISTS recent_files (
	path        TEXT PRIMARY KEY,
	last_action TEXT NOT NULL,
	open_count  INTEGER NOT NULL DEFAULT 1,
	word_count  INTEGER NOT NULL DEFAULT 0,
	used_at     DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recent_files_used_at ON recent_files(used_at DESC);

CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Run creates the base tables and applies every migration newer than the
// recorded version. It is safe to call on every start.
func Run(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	current, err := CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range AllMigrations {
		if m.Version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// apply runs m and records it in one transaction
func apply(db *sql.DB, m Migration) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err = tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name); err != nil {
		return err
	}
	return tx.Commit()
}

// CurrentVersion returns the highest applied migration, 0 for a new database
func CurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}
