package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	OutOfRangeSamples    int `json:"out_of_range_samples"`
	DuplicateSampleSlots int `json:"duplicate_sample_slots"`
	UnknownNotifKinds    int `json:"unknown_notification_kinds"`
	PrunedNotifications  int `json:"pruned_notifications"`
}

func CreateBackup(dbPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dbPath) == "" {
		return BackupInfo{}, fmt.Errorf("db path is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(dbPath, outPath); err != nil {
		return BackupInfo{}, err
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %w", err)
	}
	if _, err := os.Stat(dbPath); err == nil && !force {
		return fmt.Errorf("database already exists at %s (use --force to overwrite)", dbPath)
	}

	checksumRaw, err := os.ReadFile(backupPath + ".sha256")
	if err == nil {
		want := strings.TrimSpace(string(checksumRaw))
		got, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("backup checksum mismatch: want %s, got %s", want, got)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

// ListBackups scans a directory for .db backups, newest first. Checksums come
// from the .sha256 sidecar when present.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var out []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		st, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat backup %s: %w", path, err)
		}
		info := BackupInfo{Path: path, CreatedAt: st.ModTime(), SizeBytes: st.Size()}
		if raw, err := os.ReadFile(path + ".sha256"); err == nil {
			info.Checksum = strings.TrimSpace(string(raw))
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Doctor runs integrity checks over the step and notification tables and
// prunes expired history as a side effect.
func Doctor(db *sql.DB) (DoctorReport, error) {
	var report DoctorReport

	err := db.QueryRow(`
SELECT COUNT(1) FROM step_samples WHERE hour < 0 OR hour > 23 OR steps < 0
`).Scan(&report.OutOfRangeSamples)
	if err != nil {
		return report, fmt.Errorf("check out-of-range samples: %w", err)
	}

	err = db.QueryRow(`
SELECT IFNULL(SUM(cnt - 1), 0) FROM (
  SELECT COUNT(1) AS cnt FROM step_samples GROUP BY day, hour HAVING COUNT(1) > 1
)
`).Scan(&report.DuplicateSampleSlots)
	if err != nil {
		return report, fmt.Errorf("check duplicate samples: %w", err)
	}

	err = db.QueryRow(`
SELECT COUNT(1) FROM notifications
WHERE kind NOT IN ('inactivity', 'repeated_inactivity', 'bedtime')
`).Scan(&report.UnknownNotifKinds)
	if err != nil {
		return report, fmt.Errorf("check notification kinds: %w", err)
	}

	pruned, err := PruneHistory(db, time.Now())
	if err != nil {
		return report, err
	}
	report.PrunedNotifications = int(pruned)
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Sync()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
