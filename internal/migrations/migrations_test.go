package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_AppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := Run(db); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	version, err := CurrentVersion(db)
	if err != nil {
		t.Fatal(err)
	}
	want := AllMigrations[len(AllMigrations)-1].Version
	if version != want {
		t.Errorf("version = %d, want %d", version, want)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM recent_files").Scan(&count); err != nil {
		t.Errorf("recent_files table missing: %v", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 2; i++ {
		if err := Run(db); err != nil {
			t.Fatalf("Run() #%d error = %v", i+1, err)
		}
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != len(AllMigrations) {
		t.Errorf("schema_migrations has %d rows, want %d", rows, len(AllMigrations))
	}
}

func TestMigrations_Ordered(t *testing.T) {
	for i, m := range AllMigrations {
		if m.Version != i+1 {
			t.Errorf("migration %q has version %d, want %d", m.Name, m.Version, i+1)
		}
	}
}

func TestRun_DropsBlankPaths(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`
		CREATE TABLE recent_files (
			path TEXT PRIMARY KEY,
			last_action TEXT NOT NULL,
			open_count INTEGER NOT NULL DEFAULT 1,
			word_count INTEGER NOT NULL DEFAULT 0,
			used_at DATETIME NOT NULL
		);
		INSERT INTO recent_files (path, last_action, used_at) VALUES ('  ', 'open', '2026-01-02 10:00:00.000');
		INSERT INTO recent_files (path, last_action, used_at) VALUES ('/notes/a.md', 'save', '2026-01-02 10:00:00.000');
	`)
	if err != nil {
		t.Fatal(err)
	}

	if err := Run(db); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM recent_files").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("recent_files has %d rows, want 1", count)
	}
}

func TestCurrentVersion_NewDatabase(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec(`CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatal(err)
	}

	version, err := CurrentVersion(db)
	if err != nil {
		t.Fatalf("CurrentVersion() error = %v", err)
	}
	if version != 0 {
		t.Errorf("version = %d, want 0", version)
	}
}
