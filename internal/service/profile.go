package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/model"
)

// DefaultProfileName is the reserved profile name. It is created on the
// first save and cannot be deleted.
const DefaultProfileName = "default"

type SaveProfileInput struct {
	Name      string
	Category  string
	AgeGroup  string
	WeightKg  float64
	WakeTime  string
	SleepTime string
}

// SaveProfile validates the input, recomputes the intake limits from the
// age group and weight, upserts the profile, and marks it active. Stored
// limits are always derived here, never taken from the caller.
func SaveProfile(db *sql.DB, limits catalog.Limits, in SaveProfileInput) (*model.Profile, error) {
	name := normalizeProfileName(in.Name)
	if strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("profile category is required")
	}
	if strings.TrimSpace(in.AgeGroup) == "" {
		return nil, fmt.Errorf("age group is required")
	}
	if in.WeightKg < 30 || in.WeightKg > 200 {
		return nil, fmt.Errorf("weight must be between 30 and 200 kg")
	}

	caffeineLimit := CaffeineLimitMg(limits, in.AgeGroup, in.WeightKg)
	if caffeineLimit <= 0 {
		return nil, fmt.Errorf("unknown age group %q", in.AgeGroup)
	}
	sugarLimit := SugarLimitG(limits, in.AgeGroup)
	awake, err := AwakeHours(in.WakeTime, in.SleepTime)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
INSERT INTO profiles(name, category, age_group, weight_kg, wake_time, sleep_time, caffeine_limit_mg, sugar_limit_g, awake_hours, saved_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET
  category=excluded.category,
  age_group=excluded.age_group,
  weight_kg=excluded.weight_kg,
  wake_time=excluded.wake_time,
  sleep_time=excluded.sleep_time,
  caffeine_limit_mg=excluded.caffeine_limit_mg,
  sugar_limit_g=excluded.sugar_limit_g,
  awake_hours=excluded.awake_hours,
  saved_at=excluded.saved_at
`, name, strings.TrimSpace(in.Category), strings.TrimSpace(in.AgeGroup), in.WeightKg,
		strings.TrimSpace(in.WakeTime), strings.TrimSpace(in.SleepTime), caffeineLimit, sugarLimit, awake)
	if err != nil {
		return nil, fmt.Errorf("save profile %q: %w", name, err)
	}

	if err := setConfigValue(db, ConfigActiveProfile, name); err != nil {
		return nil, err
	}
	return LoadProfile(db, name)
}

// LoadProfile returns the named profile, or (nil, nil) when absent.
// The active-profile pointer is not touched.
func LoadProfile(db *sql.DB, name string) (*model.Profile, error) {
	name = normalizeProfileName(name)
	var p model.Profile
	err := db.QueryRow(`
SELECT name, category, age_group, weight_kg, wake_time, sleep_time, caffeine_limit_mg, sugar_limit_g, awake_hours, saved_at
FROM profiles
WHERE name = ?
`, name).Scan(&p.Name, &p.Category, &p.AgeGroup, &p.WeightKg, &p.WakeTime, &p.SleepTime,
		&p.CaffeineLimitMg, &p.SugarLimitG, &p.AwakeHours, &p.SavedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load profile %q: %w", name, err)
	}
	return &p, nil
}

// ActiveProfile resolves the active profile name (default when unset) and
// loads it. Returns (nil, nil) when no profile has been saved yet.
func ActiveProfile(db *sql.DB) (*model.Profile, error) {
	name, found, err := getConfigValue(db, ConfigActiveProfile)
	if err != nil {
		return nil, err
	}
	if !found {
		name = DefaultProfileName
	}
	return LoadProfile(db, name)
}

// SetActiveProfile marks an existing profile as active.
func SetActiveProfile(db *sql.DB, name string) error {
	name = normalizeProfileName(name)
	p, err := LoadProfile(db, name)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("profile %q does not exist", name)
	}
	return setConfigValue(db, ConfigActiveProfile, name)
}

// DeleteProfile removes a named profile. The default profile is protected
// here rather than in the command layer so no caller can bypass the rule.
func DeleteProfile(db *sql.DB, name string) error {
	name = normalizeProfileName(name)
	if name == DefaultProfileName {
		return fmt.Errorf("the %q profile cannot be deleted", DefaultProfileName)
	}
	res, err := db.Exec(`DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve deleted profile rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %q does not exist", name)
	}

	// If the deleted profile was active, fall back to default.
	active, found, err := getConfigValue(db, ConfigActiveProfile)
	if err != nil {
		return err
	}
	if found && active == name {
		return setConfigValue(db, ConfigActiveProfile, DefaultProfileName)
	}
	return nil
}

// ListProfileNames returns all stored profile names in a stable order.
func ListProfileNames(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan profile name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile names: %w", err)
	}
	return names, nil
}
