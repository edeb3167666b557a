package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS profiles (
  name TEXT PRIMARY KEY,
  category TEXT NOT NULL,
  age_group TEXT NOT NULL,
  weight_kg REAL NOT NULL CHECK(weight_kg >= 30 AND weight_kg <= 200),
  wake_time TEXT NOT NULL,
  sleep_time TEXT NOT NULL,
  caffeine_limit_mg REAL NOT NULL CHECK(caffeine_limit_mg > 0),
  sugar_limit_g REAL NOT NULL CHECK(sugar_limit_g > 0),
  awake_hours REAL NOT NULL CHECK(awake_hours > 0 AND awake_hours <= 24),
  saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "favorites_and_recents",
		sql: `
CREATE TABLE IF NOT EXISTS favorites (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL UNIQUE CHECK(product_id >= 0),
  added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recents (
  product_id INTEGER PRIMARY KEY CHECK(product_id >= 0),
  position INTEGER NOT NULL UNIQUE
);
`,
	},
	{
		version: 3,
		name:    "plan_history",
		sql: `
CREATE TABLE IF NOT EXISTS plan_history (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id INTEGER NOT NULL UNIQUE,
  profile_json TEXT NOT NULL,
  products_json TEXT NOT NULL,
  result_text TEXT NOT NULL,
  start_time TEXT NOT NULL,
  total_caffeine_mg REAL NOT NULL CHECK(total_caffeine_mg >= 0),
  total_sugar_g REAL NOT NULL CHECK(total_sugar_g >= 0),
  saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 4,
		name:    "daily_reports",
		sql: `
CREATE TABLE IF NOT EXISTS daily_reports (
  date TEXT PRIMARY KEY,
  total_caffeine_mg REAL NOT NULL DEFAULT 0 CHECK(total_caffeine_mg >= 0),
  total_sugar_g REAL NOT NULL DEFAULT 0 CHECK(total_sugar_g >= 0),
  product_count INTEGER NOT NULL DEFAULT 0 CHECK(product_count >= 0)
);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}
