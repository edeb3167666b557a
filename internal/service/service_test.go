package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return conn
}

func testCatalog(t *testing.T) *catalog.Repository {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}
