package service

import (
	"database/sql"
	"fmt"

	"github.com/caffit/caffit/internal/catalog"
)

// maxRecents bounds the recently-used queue.
const maxRecents = 10

// TouchRecent records a product use. An already-listed product moves to the
// front instead of being duplicated; the queue is then truncated to the
// newest maxRecents entries.
func TouchRecent(db *sql.DB, cat *catalog.Repository, id catalog.ProductID) error {
	if _, ok := cat.Get(id); !ok {
		return fmt.Errorf("no product with id %d", id)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin recents tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM recents WHERE product_id = ?`, int(id)); err != nil {
		return fmt.Errorf("dedupe recent %d: %w", id, err)
	}
	if _, err := tx.Exec(`
INSERT INTO recents(product_id, position)
VALUES(?, COALESCE((SELECT MAX(position) FROM recents), 0) + 1)
`, int(id)); err != nil {
		return fmt.Errorf("insert recent %d: %w", id, err)
	}
	if _, err := tx.Exec(`
DELETE FROM recents WHERE position NOT IN (
  SELECT position FROM recents ORDER BY position DESC LIMIT ?
)
`, maxRecents); err != nil {
		return fmt.Errorf("truncate recents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recents tx: %w", err)
	}
	return nil
}

// RecentProducts returns recently used ids, most recent first.
func RecentProducts(db *sql.DB) ([]catalog.ProductID, error) {
	rows, err := db.Query(`SELECT product_id FROM recents ORDER BY position DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recents: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.ProductID, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		out = append(out, catalog.ProductID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recents: %w", err)
	}
	return out, nil
}
