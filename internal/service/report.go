package service

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/caffit/caffit/internal/model"
)

// Population reference thresholds used for health assessment. These are
// fixed guideline values, deliberately independent of the per-profile
// limits computed at save time.
const (
	referenceCaffeineMg = 400
	referenceSugarG     = 50
)

// Band describes intake relative to a reference threshold.
type Band string

const (
	BandGood    Band = "good"
	BandCaution Band = "caution"
	BandDanger  Band = "danger"
)

// RecordSession folds one planning session into the ledger for a calendar
// day. Sessions on the same date accumulate into one record; they never
// overwrite each other. An empty date means today.
func RecordSession(db *sql.DB, date string, caffeineMg, sugarG float64, productCount int) error {
	day, err := normalizeDate(date, time.Now())
	if err != nil {
		return err
	}
	if caffeineMg < 0 || sugarG < 0 || productCount < 0 {
		return fmt.Errorf("session totals must be >= 0")
	}

	_, err = db.Exec(`
INSERT INTO daily_reports(date, total_caffeine_mg, total_sugar_g, product_count)
VALUES(?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
  total_caffeine_mg = total_caffeine_mg + excluded.total_caffeine_mg,
  total_sugar_g = total_sugar_g + excluded.total_sugar_g,
  product_count = product_count + excluded.product_count
`, day, caffeineMg, sugarG, productCount)
	if err != nil {
		return fmt.Errorf("record session for %s: %w", day, err)
	}
	return nil
}

// ReportsByPeriod returns ledger records for a period relative to now:
// "week" is the trailing 7 days, "month" the trailing calendar month,
// "all" everything. Records come back in date order.
func ReportsByPeriod(db *sql.DB, period string, now time.Time) ([]model.DailyReport, error) {
	query := `SELECT date, total_caffeine_mg, total_sugar_g, product_count FROM daily_reports`
	args := make([]any, 0, 1)

	switch period {
	case "week":
		query += ` WHERE date >= ?`
		args = append(args, now.AddDate(0, 0, -7).Format(dateLayout))
	case "month":
		query += ` WHERE date >= ?`
		args = append(args, now.AddDate(0, -1, 0).Format(dateLayout))
	case "all":
	default:
		return nil, fmt.Errorf("unknown period %q (expected week, month, or all)", period)
	}
	query += ` ORDER BY date ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily reports: %w", err)
	}
	defer rows.Close()

	reports := make([]model.DailyReport, 0)
	for rows.Next() {
		var r model.DailyReport
		if err := rows.Scan(&r.Date, &r.TotalCaffeineMg, &r.TotalSugarG, &r.ProductCount); err != nil {
			return nil, fmt.Errorf("scan daily report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily reports: %w", err)
	}
	return reports, nil
}

type ReportStats struct {
	TotalCaffeineMg   float64 `json:"total_caffeine_mg"`
	TotalSugarG       float64 `json:"total_sugar_g"`
	AvgCaffeineMg     float64 `json:"avg_caffeine_mg"`
	AvgSugarG         float64 `json:"avg_sugar_g"`
	SessionDayCount   int     `json:"session_day_count"`
	TotalProductCount int     `json:"total_product_count"`
}

// AggregateReports derives period totals and per-reporting-day averages.
// An empty period yields all-zero stats.
func AggregateReports(db *sql.DB, period string, now time.Time) (ReportStats, error) {
	reports, err := ReportsByPeriod(db, period, now)
	if err != nil {
		return ReportStats{}, err
	}

	stats := ReportStats{}
	for _, r := range reports {
		stats.TotalCaffeineMg += r.TotalCaffeineMg
		stats.TotalSugarG += r.TotalSugarG
		stats.TotalProductCount += r.ProductCount
	}
	stats.SessionDayCount = len(reports)
	if stats.SessionDayCount > 0 {
		days := float64(stats.SessionDayCount)
		stats.AvgCaffeineMg = math.Round(stats.TotalCaffeineMg / days)
		stats.AvgSugarG = math.Round(stats.TotalSugarG / days)
	}
	return stats, nil
}

type Assessment struct {
	CaffeinePercent        float64 `json:"caffeine_percent"`
	SugarPercent           float64 `json:"sugar_percent"`
	CaffeineDisplayPercent float64 `json:"caffeine_display_percent"`
	SugarDisplayPercent    float64 `json:"sugar_display_percent"`
	CaffeineBand           Band    `json:"caffeine_band"`
	SugarBand              Band    `json:"sugar_band"`
}

// Assess maps average daily intake against the fixed reference thresholds.
// Bands use the raw percent; the display percent is capped at 100. The
// sugar cutoffs are deliberately looser: intake is tolerated up to the full
// reference limit before it counts as danger.
func Assess(avgCaffeineMg, avgSugarG float64) Assessment {
	caffeinePct := avgCaffeineMg / referenceCaffeineMg * 100
	sugarPct := avgSugarG / referenceSugarG * 100

	a := Assessment{
		CaffeinePercent:        caffeinePct,
		SugarPercent:           sugarPct,
		CaffeineDisplayPercent: math.Min(100, caffeinePct),
		SugarDisplayPercent:    math.Min(100, sugarPct),
	}

	switch {
	case caffeinePct <= 50:
		a.CaffeineBand = BandGood
	case caffeinePct <= 80:
		a.CaffeineBand = BandCaution
	default:
		a.CaffeineBand = BandDanger
	}
	switch {
	case sugarPct <= 50:
		a.SugarBand = BandGood
	case sugarPct <= 100:
		a.SugarBand = BandCaution
	default:
		a.SugarBand = BandDanger
	}
	return a
}

type HealthTip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HealthTips composes advice from the assessment percentages, always ending
// with the hydration and timing reminders.
func HealthTips(caffeinePercent, sugarPercent float64) []HealthTip {
	tips := make([]HealthTip, 0, 4)

	if caffeinePercent < 20 {
		tips = append(tips, HealthTip{
			Title:       "Caffeine well regulated",
			Description: "Your caffeine intake is moderate. Adjust as needed without overdoing it.",
		})
	} else if caffeinePercent > 80 {
		tips = append(tips, HealthTip{
			Title:       "High caffeine intake",
			Description: "You are near or past the recommended daily amount. Watch for sleep disruption and jitteriness.",
		})
	}

	if sugarPercent < 30 {
		tips = append(tips, HealthTip{
			Title:       "Healthy sugar intake",
			Description: "Sugar intake is under control. Keep it up!",
		})
	} else if sugarPercent > 100 {
		tips = append(tips, HealthTip{
			Title:       "Sugar over the guideline",
			Description: "You exceeded the WHO daily guideline. Consider low-sugar alternatives.",
		})
	}

	tips = append(tips,
		HealthTip{
			Title:       "Stay hydrated",
			Description: "Drink plenty of water alongside caffeine, around 2-3 liters a day.",
		},
		HealthTip{
			Title:       "Mind the timing",
			Description: "Caffeine after 3 PM can interfere with sleep.",
		},
	)
	return tips
}
