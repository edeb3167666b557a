package caffit

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caffit/caffit/internal/app"
	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/db"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func loadCatalog() (*catalog.Repository, error) {
	return catalog.Default()
}

func parseProductIDArg(value string) (catalog.ProductID, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid product id %q", value)
	}
	return catalog.ProductID(v), nil
}

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func formatSugar(p catalog.Product) string {
	if !p.SugarKnown() {
		return "?"
	}
	return fmt.Sprintf("%.0fg", *p.SugarG)
}
