package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations failed validation: %v", err)
	}
}

func TestKVEntriesMigrationContainsTable(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_kv_entries.sql"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no kv_entries migration found: %v", err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	for _, sub := range []string{"CREATE TABLE IF NOT EXISTS kv_entries", "DROP TABLE IF EXISTS kv_entries"} {
		if !strings.Contains(string(data), sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRunUpAgainstSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := Run(ctx, sqlDB, "sqlite", "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}
	version, err := Version(ctx, sqlDB, "sqlite")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 20260301090000 {
		t.Fatalf("unexpected version %d", version)
	}
	if !conn.Migrator().HasTable("kv_entries") {
		t.Fatalf("expected kv_entries table")
	}
}

func TestRunRejectsUnknownDialect(t *testing.T) {
	if _, err := gooseDialect("mysql"); err == nil {
		t.Fatalf("expected unsupported dialect error")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	path, err := CreateSQLMigration(dir, "Add Session Index!", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20260302100000_add_session_index.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "Add Session Index!", now); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := CreateSQLMigration(dir, "!!!", now); err == nil {
		t.Fatalf("expected empty name error")
	}
}
