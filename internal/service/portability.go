package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/model"
)

// Snapshot is the portable JSON form of every store. Product references
// stay catalog ids; the catalog itself is not exported.
type Snapshot struct {
	ExportedAt    time.Time           `json:"exported_at"`
	ActiveProfile string              `json:"active_profile,omitempty"`
	Profiles      []model.Profile     `json:"profiles"`
	Favorites     []int               `json:"favorites"`
	Recents       []int               `json:"recents"`
	Plans         []model.PlanRecord  `json:"plans"`
	Reports       []model.DailyReport `json:"reports"`
}

func ExportSnapshot(db *sql.DB) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: time.Now()}

	names, err := ListProfileNames(db)
	if err != nil {
		return nil, err
	}
	snap.Profiles = make([]model.Profile, 0, len(names))
	for _, name := range names {
		p, err := LoadProfile(db, name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			snap.Profiles = append(snap.Profiles, *p)
		}
	}

	active, found, err := getConfigValue(db, ConfigActiveProfile)
	if err != nil {
		return nil, err
	}
	if found {
		snap.ActiveProfile = active
	}

	favorites, err := ListFavorites(db)
	if err != nil {
		return nil, err
	}
	snap.Favorites = productIDInts(favorites)

	recents, err := RecentProducts(db)
	if err != nil {
		return nil, err
	}
	snap.Recents = productIDInts(recents)

	snap.Plans, err = PlanHistory(db)
	if err != nil {
		return nil, err
	}

	snap.Reports, err = ReportsByPeriod(db, "all", time.Now())
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ImportSnapshot replaces the current store contents with the snapshot.
// The whole import runs in one transaction so a malformed snapshot cannot
// leave the stores half-written.
func ImportSnapshot(db *sql.DB, cat *catalog.Repository, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is required")
	}
	for _, id := range append(append([]int{}, snap.Favorites...), snap.Recents...) {
		if _, ok := cat.Get(catalog.ProductID(id)); !ok {
			return fmt.Errorf("snapshot references unknown product id %d", id)
		}
	}

	// Hand-edited snapshots may exceed the queue caps; both lists are
	// newest-first, so keeping the head keeps the newest entries.
	recents := snap.Recents
	if len(recents) > maxRecents {
		recents = recents[:maxRecents]
	}
	plans := snap.Plans
	if len(plans) > maxPlanHistory {
		plans = plans[:maxPlanHistory]
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"profiles", "favorites", "recents", "plan_history", "daily_reports"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Profiles {
		if _, err := tx.Exec(`
INSERT INTO profiles(name, category, age_group, weight_kg, wake_time, sleep_time, caffeine_limit_mg, sugar_limit_g, awake_hours, saved_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, p.Name, p.Category, p.AgeGroup, p.WeightKg, p.WakeTime, p.SleepTime,
			p.CaffeineLimitMg, p.SugarLimitG, p.AwakeHours, p.SavedAt); err != nil {
			return fmt.Errorf("import profile %q: %w", p.Name, err)
		}
	}
	if snap.ActiveProfile != "" {
		if _, err := tx.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, ConfigActiveProfile, snap.ActiveProfile); err != nil {
			return fmt.Errorf("import active profile: %w", err)
		}
	}

	for _, id := range snap.Favorites {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO favorites(product_id) VALUES(?)`, id); err != nil {
			return fmt.Errorf("import favorite %d: %w", id, err)
		}
	}
	// Recents arrive front-to-back; insert back-to-front so positions match.
	for i := len(recents) - 1; i >= 0; i-- {
		if _, err := tx.Exec(`
INSERT OR REPLACE INTO recents(product_id, position)
VALUES(?, COALESCE((SELECT MAX(position) FROM recents), 0) + 1)
`, recents[i]); err != nil {
			return fmt.Errorf("import recent %d: %w", recents[i], err)
		}
	}

	// Plans arrive most-recent first; insert oldest first to keep insertion
	// order (and FIFO eviction) faithful.
	for i := len(plans) - 1; i >= 0; i-- {
		p := plans[i]
		profileJSON, productsJSON, err := marshalPlanSnapshots(p)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
INSERT INTO plan_history(id, profile_json, products_json, result_text, start_time, total_caffeine_mg, total_sugar_g, saved_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, p.ID, profileJSON, productsJSON, p.ResultText, p.StartTime, p.TotalCaffeineMg, p.TotalSugarG, p.SavedAt); err != nil {
			return fmt.Errorf("import plan %d: %w", p.ID, err)
		}
	}

	for _, r := range snap.Reports {
		if _, err := tx.Exec(`
INSERT INTO daily_reports(date, total_caffeine_mg, total_sugar_g, product_count)
VALUES(?, ?, ?, ?)
`, r.Date, r.TotalCaffeineMg, r.TotalSugarG, r.ProductCount); err != nil {
			return fmt.Errorf("import daily report %s: %w", r.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	return nil
}

func productIDInts(ids []catalog.ProductID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
