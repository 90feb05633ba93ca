package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindLatestMigrationVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_create_table_shots.up.sql",
		"000001_create_table_shots.down.sql",
		"000012_add_index.up.sql",
		"README.md",
		"notes_000099.sql",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000050_dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := findLatestMigrationVersion(dir); got != 12 {
		t.Errorf("latest = %d, want 12", got)
	}
}

func TestFindLatestMigrationVersionMissingDir(t *testing.T) {
	if got := findLatestMigrationVersion(filepath.Join(t.TempDir(), "nope")); got != 0 {
		t.Errorf("latest = %d, want 0", got)
	}
}

func TestRunMigrationsNeedsURL(t *testing.T) {
	if err := RunMigrations(""); err == nil {
		t.Error("empty database URL should fail")
	}
}

func TestRollbackNeedsPositiveSteps(t *testing.T) {
	if err := RollbackMigrations("postgres://localhost/none", 0); err == nil {
		t.Error("zero steps should fail before connecting")
	}
}
