package db_test

import (
	"path/filepath"
	"testing"

	"github.com/caffit/caffit/internal/db"
)

func TestApplyMigrationsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "caffit.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()

	for i := 0; i < 2; i++ {
		if err := db.ApplyMigrations(sqldb); err != nil {
			t.Fatalf("apply migrations run %d: %v", i+1, err)
		}
	}

	tables := []string{"profiles", "app_config", "favorites", "recents", "plan_history", "daily_reports"}
	for _, table := range tables {
		var name string
		err := sqldb.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestMigrationVersionsRecorded(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "caffit.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var count int
	if err := sqldb.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count < 4 {
		t.Fatalf("expected at least 4 recorded migrations, got %d", count)
	}
}
