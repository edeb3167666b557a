package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/caffit/caffit/internal/model"
)

// maxPlanHistory caps the plan log; the oldest saved plan is evicted first.
const maxPlanHistory = 50

type SavePlanInput struct {
	Profile   model.Profile
	Products  []model.PlanProduct
	Result    string
	StartTime string
}

// SavePlan persists a completed planning session under a fresh time-derived
// id and evicts beyond the history cap, oldest insertion first. Returns the
// assigned id.
func SavePlan(db *sql.DB, in SavePlanInput) (int64, error) {
	if len(in.Products) == 0 {
		return 0, fmt.Errorf("a plan needs at least one product")
	}
	if strings.TrimSpace(in.Result) == "" {
		return 0, fmt.Errorf("plan result text is required")
	}

	profileJSON, err := json.Marshal(in.Profile)
	if err != nil {
		return 0, fmt.Errorf("marshal profile snapshot: %w", err)
	}
	productsJSON, err := json.Marshal(in.Products)
	if err != nil {
		return 0, fmt.Errorf("marshal product snapshots: %w", err)
	}
	totalCaffeine, totalSugar := PlanTotals(in.Products)

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin plan tx: %w", err)
	}
	defer tx.Rollback()

	id := time.Now().UnixMilli()
	for {
		_, err = tx.Exec(`
INSERT INTO plan_history(id, profile_json, products_json, result_text, start_time, total_caffeine_mg, total_sugar_g)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, id, string(profileJSON), string(productsJSON), in.Result, strings.TrimSpace(in.StartTime), totalCaffeine, totalSugar)
		if err == nil {
			break
		}
		if isUniqueViolation(err) {
			// Two saves within the same millisecond; bump until free.
			id++
			continue
		}
		return 0, fmt.Errorf("insert plan: %w", err)
	}

	if _, err := tx.Exec(`
DELETE FROM plan_history WHERE seq NOT IN (
  SELECT seq FROM plan_history ORDER BY seq DESC LIMIT ?
)
`, maxPlanHistory); err != nil {
		return 0, fmt.Errorf("evict old plans: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit plan tx: %w", err)
	}
	return id, nil
}

// PlanTotals sums caffeine and known sugar across product snapshots.
func PlanTotals(products []model.PlanProduct) (caffeineMg, sugarG float64) {
	for _, p := range products {
		caffeineMg += p.CaffeineMg
		if p.SugarG != nil {
			sugarG += *p.SugarG
		}
	}
	return caffeineMg, sugarG
}

// PlanHistory returns saved plans, most recent first.
func PlanHistory(db *sql.DB) ([]model.PlanRecord, error) {
	rows, err := db.Query(`
SELECT id, profile_json, products_json, result_text, start_time, total_caffeine_mg, total_sugar_g, saved_at
FROM plan_history
ORDER BY seq DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list plan history: %w", err)
	}
	defer rows.Close()

	plans := make([]model.PlanRecord, 0)
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan history: %w", err)
	}
	return plans, nil
}

// PlanByID returns the matching plan, or (nil, nil) when absent.
func PlanByID(db *sql.DB, id int64) (*model.PlanRecord, error) {
	row := db.QueryRow(`
SELECT id, profile_json, products_json, result_text, start_time, total_caffeine_mg, total_sugar_g, saved_at
FROM plan_history
WHERE id = ?
`, id)
	p, err := scanPlan(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePlan removes a plan by id; deleting an absent id is a no-op.
func DeletePlan(db *sql.DB, id int64) error {
	if _, err := db.Exec(`DELETE FROM plan_history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete plan %d: %w", id, err)
	}
	return nil
}

func scanPlan(scan func(...any) error) (*model.PlanRecord, error) {
	var p model.PlanRecord
	var profileJSON, productsJSON string
	err := scan(&p.ID, &profileJSON, &productsJSON, &p.ResultText, &p.StartTime,
		&p.TotalCaffeineMg, &p.TotalSugarG, &p.SavedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	if err := json.Unmarshal([]byte(profileJSON), &p.Profile); err != nil {
		return nil, fmt.Errorf("decode profile snapshot for plan %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(productsJSON), &p.Products); err != nil {
		return nil, fmt.Errorf("decode product snapshots for plan %d: %w", p.ID, err)
	}
	return &p, nil
}

func marshalPlanSnapshots(p model.PlanRecord) (string, string, error) {
	profileJSON, err := json.Marshal(p.Profile)
	if err != nil {
		return "", "", fmt.Errorf("marshal profile snapshot for plan %d: %w", p.ID, err)
	}
	productsJSON, err := json.Marshal(p.Products)
	if err != nil {
		return "", "", fmt.Errorf("marshal product snapshots for plan %d: %w", p.ID, err)
	}
	return string(profileJSON), string(productsJSON), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
