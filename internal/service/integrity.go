package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/db"
)

// BackupInfo describes one backup snapshot, including the store counts
// captured at backup time.
type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
	Profiles  int       `json:"profiles"`
	Plans     int       `json:"plans"`
}

// CreateBackup snapshots the open database into outPath with VACUUM INTO,
// so the copy is consistent even mid-transaction, and writes a sha256
// sidecar next to it.
func CreateBackup(sqldb *sql.DB, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	// VACUUM INTO refuses to overwrite; a stale partial file would block
	// the timestamped name forever.
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup file %s already exists", outPath)
	}
	if _, err := sqldb.Exec(`VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("snapshot database: %w", err)
	}

	info := BackupInfo{Path: outPath}
	if err := sqldb.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&info.Profiles); err != nil {
		return BackupInfo{}, fmt.Errorf("count profiles for backup: %w", err)
	}
	if err := sqldb.QueryRow(`SELECT COUNT(*) FROM plan_history`).Scan(&info.Plans); err != nil {
		return BackupInfo{}, fmt.Errorf("count plans for backup: %w", err)
	}

	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	info.Checksum = checksum

	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	info.CreatedAt = st.ModTime()
	info.SizeBytes = st.Size()
	return info, nil
}

// RestoreBackup copies a backup over dbPath. The backup must pass its
// sidecar checksum (when one exists) and must actually be a caffit
// database before anything is overwritten.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if expected, err := os.ReadFile(backupPath + ".sha256"); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := verifyCaffitDatabase(backupPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

// verifyCaffitDatabase opens the candidate file and checks for the
// migration ledger and the profiles store.
func verifyCaffitDatabase(path string) error {
	conn, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("backup is not a readable database: %w", err)
	}
	defer conn.Close()

	var versions int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&versions); err != nil {
		return fmt.Errorf("backup is not a caffit database (no migration ledger): %w", err)
	}
	var name string
	err = conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='profiles'`).Scan(&name)
	if err != nil {
		return fmt.Errorf("backup is not a caffit database (no profiles table)")
	}
	return nil
}

// ListBackups returns the .db snapshots under dir, newest first.
func ListBackups(dir string) ([]BackupInfo, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.db"))
	if err != nil {
		return nil, fmt.Errorf("scan backup dir: %w", err)
	}
	out := make([]BackupInfo, 0, len(matches))
	for _, path := range matches {
		st, err := os.Stat(path)
		if err != nil || st.IsDir() {
			continue
		}
		info := BackupInfo{Path: path, CreatedAt: st.ModTime(), SizeBytes: st.Size()}
		if b, err := os.ReadFile(path + ".sha256"); err == nil {
			info.Checksum = strings.TrimSpace(string(b))
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DoctorReport tallies store-consistency problems: product references
// outside the catalog, plan snapshots that no longer parse, queues past
// their caps, and an active-profile pointer at a deleted profile.
type DoctorReport struct {
	OrphanFavorites    int  `json:"orphan_favorites"`
	OrphanRecents      int  `json:"orphan_recents"`
	MalformedPlans     int  `json:"malformed_plans"`
	ExcessRecents      int  `json:"excess_recents"`
	ExcessPlans        int  `json:"excess_plans"`
	StaleActiveProfile bool `json:"stale_active_profile"`
	FixedRows          int  `json:"fixed_rows,omitempty"`
}

func (r DoctorReport) Clean() bool {
	return r.OrphanFavorites == 0 && r.OrphanRecents == 0 && r.MalformedPlans == 0 &&
		r.ExcessRecents == 0 && r.ExcessPlans == 0 && !r.StaleActiveProfile
}

// RunDoctor audits the stores against the catalog and the queue caps.
// With fix set it deletes orphan and malformed rows, truncates the
// queues, and resets a stale active-profile pointer.
func RunDoctor(sqldb *sql.DB, cat *catalog.Repository, fix bool) (DoctorReport, error) {
	report := DoctorReport{}

	if err := sqldb.QueryRow(`SELECT COUNT(*) FROM favorites WHERE product_id >= ?`, cat.Len()).Scan(&report.OrphanFavorites); err != nil {
		return report, fmt.Errorf("doctor favorites check: %w", err)
	}
	if err := sqldb.QueryRow(`SELECT COUNT(*) FROM recents WHERE product_id >= ?`, cat.Len()).Scan(&report.OrphanRecents); err != nil {
		return report, fmt.Errorf("doctor recents check: %w", err)
	}

	rows, err := sqldb.Query(`SELECT id, profile_json, products_json FROM plan_history`)
	if err != nil {
		return report, fmt.Errorf("doctor plan query: %w", err)
	}
	malformedIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		var profileJSON, productsJSON string
		if err := rows.Scan(&id, &profileJSON, &productsJSON); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor plan scan: %w", err)
		}
		if !json.Valid([]byte(profileJSON)) || !json.Valid([]byte(productsJSON)) {
			report.MalformedPlans++
			malformedIDs = append(malformedIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor plan iterate: %w", err)
	}
	_ = rows.Close()

	var recentCount, planCount int
	if err := sqldb.QueryRow(`SELECT COUNT(*) FROM recents`).Scan(&recentCount); err != nil {
		return report, fmt.Errorf("doctor recents count: %w", err)
	}
	if recentCount > maxRecents {
		report.ExcessRecents = recentCount - maxRecents
	}
	if err := sqldb.QueryRow(`SELECT COUNT(*) FROM plan_history`).Scan(&planCount); err != nil {
		return report, fmt.Errorf("doctor plan count: %w", err)
	}
	if planCount > maxPlanHistory {
		report.ExcessPlans = planCount - maxPlanHistory
	}

	active, found, err := getConfigValue(sqldb, ConfigActiveProfile)
	if err != nil {
		return report, err
	}
	if found {
		p, err := LoadProfile(sqldb, active)
		if err != nil {
			return report, err
		}
		report.StaleActiveProfile = p == nil
	}

	if !fix || report.Clean() {
		return report, nil
	}

	tx, err := sqldb.Begin()
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	defer tx.Rollback()

	countFix := func(res sql.Result, err error, what string) error {
		if err != nil {
			return fmt.Errorf("doctor fix %s: %w", what, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("doctor fix %s rows: %w", what, err)
		}
		report.FixedRows += int(n)
		return nil
	}

	res, err := tx.Exec(`DELETE FROM favorites WHERE product_id >= ?`, cat.Len())
	if err := countFix(res, err, "orphan favorites"); err != nil {
		return report, err
	}
	res, err = tx.Exec(`DELETE FROM recents WHERE product_id >= ?`, cat.Len())
	if err := countFix(res, err, "orphan recents"); err != nil {
		return report, err
	}
	for _, id := range malformedIDs {
		res, err = tx.Exec(`DELETE FROM plan_history WHERE id = ?`, id)
		if err := countFix(res, err, "malformed plan"); err != nil {
			return report, err
		}
	}
	res, err = tx.Exec(`
DELETE FROM recents WHERE position NOT IN (
  SELECT position FROM recents ORDER BY position DESC LIMIT ?
)
`, maxRecents)
	if err := countFix(res, err, "excess recents"); err != nil {
		return report, err
	}
	res, err = tx.Exec(`
DELETE FROM plan_history WHERE seq NOT IN (
  SELECT seq FROM plan_history ORDER BY seq DESC LIMIT ?
)
`, maxPlanHistory)
	if err := countFix(res, err, "excess plans"); err != nil {
		return report, err
	}
	if report.StaleActiveProfile {
		res, err = tx.Exec(`UPDATE app_config SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?`,
			DefaultProfileName, ConfigActiveProfile)
		if err := countFix(res, err, "active profile"); err != nil {
			return report, err
		}
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return out.Sync()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
