package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMigrations_ParsesAndSorts(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"002_reports.sql": "CREATE TABLE reports (id INT);",
		"001_core.sql":    "CREATE TABLE users (id INT);",
		"010_stats.sql":   "CREATE TABLE adherence_stats (id INT);",
		"README.md":       "not a migration",
		"notes.sql":       "no version prefix",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("got %d migrations, want 3", len(migrations))
	}

	wantVersions := []int{1, 2, 10}
	wantNames := []string{"001_core.sql", "002_reports.sql", "010_stats.sql"}
	for i, mig := range migrations {
		if mig.Version != wantVersions[i] {
			t.Errorf("migrations[%d].Version = %d, want %d", i, mig.Version, wantVersions[i])
		}
		if mig.Name != wantNames[i] {
			t.Errorf("migrations[%d].Name = %q, want %q", i, mig.Name, wantNames[i])
		}
		if mig.SQL == "" {
			t.Errorf("migrations[%d].SQL is empty", i)
		}
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("LoadMigrations() succeeded for missing directory")
	}
}
