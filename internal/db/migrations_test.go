package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strideapp/stride-cli/internal/db"
)

func TestApplyMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "stride.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("first apply migrations: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("second apply migrations: %v", err)
	}

	var migrationCount int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&migrationCount); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if migrationCount != 3 {
		t.Fatalf("expected 3 migration versions, got %d", migrationCount)
	}

	for _, table := range []string{"goals", "step_samples", "notifications", "app_settings"} {
		var count int
		if err := sqldb.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count); err != nil {
			t.Fatalf("check %s table: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected %s table to exist", table)
		}
	}

	var sampleDayIndexCount int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'index' AND name = 'idx_step_samples_day'`).Scan(&sampleDayIndexCount); err != nil {
		t.Fatalf("check step_samples day index: %v", err)
	}
	if sampleDayIndexCount != 1 {
		t.Fatalf("expected idx_step_samples_day index to exist")
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db file to exist: %v", err)
	}
}

func TestStepSampleConstraints(t *testing.T) {
	t.Parallel()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "stride.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := sqldb.Exec(`INSERT INTO step_samples(day, hour, steps) VALUES('2026-03-01', 24, 100)`); err == nil {
		t.Fatalf("expected hour > 23 to violate check constraint")
	}
	if _, err := sqldb.Exec(`INSERT INTO step_samples(day, hour, steps) VALUES('2026-03-01', 9, -1)`); err == nil {
		t.Fatalf("expected negative steps to violate check constraint")
	}
	if _, err := sqldb.Exec(`INSERT INTO notifications(identifier, kind, sent_at) VALUES('x', 'unknown', CURRENT_TIMESTAMP)`); err == nil {
		t.Fatalf("expected unknown notification kind to violate check constraint")
	}
}
