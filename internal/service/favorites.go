package service

import (
	"database/sql"
	"fmt"

	"github.com/caffit/caffit/internal/catalog"
)

// AddFavorite marks a catalog product as favorite. Adding an existing
// favorite is a no-op.
func AddFavorite(db *sql.DB, cat *catalog.Repository, id catalog.ProductID) error {
	if _, ok := cat.Get(id); !ok {
		return fmt.Errorf("no product with id %d", id)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO favorites(product_id) VALUES(?)`, int(id)); err != nil {
		return fmt.Errorf("add favorite %d: %w", id, err)
	}
	return nil
}

// RemoveFavorite unmarks a product. Removing an absent favorite is a no-op.
func RemoveFavorite(db *sql.DB, id catalog.ProductID) error {
	if _, err := db.Exec(`DELETE FROM favorites WHERE product_id = ?`, int(id)); err != nil {
		return fmt.Errorf("remove favorite %d: %w", id, err)
	}
	return nil
}

func IsFavorite(db *sql.DB, id catalog.ProductID) (bool, error) {
	var one int
	err := db.QueryRow(`SELECT 1 FROM favorites WHERE product_id = ?`, int(id)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check favorite %d: %w", id, err)
	}
	return true, nil
}

// ListFavorites returns favorited product ids in insertion order.
func ListFavorites(db *sql.DB) ([]catalog.ProductID, error) {
	rows, err := db.Query(`SELECT product_id FROM favorites ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.ProductID, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		out = append(out, catalog.ProductID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return out, nil
}
