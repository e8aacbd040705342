package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

// tempDBPath returns a path to a temp database file.
func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}

// setupTestDB creates a new temporary database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenAndMigrate(tempDBPath(t))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Errorf("parent directories not created")
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	if _, err := Open("/proc/nonexistent/history.db"); err == nil {
		t.Error("expected error opening db at invalid path")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var version int
	if err := db.queryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := setupTestDB(t)

	var name string
	err := db.queryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='entries'").Scan(&name)
	if err == sql.ErrNoRows {
		t.Fatal("entries table not created")
	}
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	if got, want := DefaultPath(), "/tmp/xdg-data/linguist/history.db"; got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
