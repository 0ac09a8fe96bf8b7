package backup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go-loyalty/util/logger"
)

// Runner produces a pg_dump custom-format snapshot of the configured database
// and prunes dumps older than the retention window. Every failure is reported
// to the caller; none of them is fatal to the process.
type Runner struct {
	dsn      string
	dir      string
	keepDays int
	interval time.Duration
}

func NewRunner(dsn, dir string, keepDays int, interval time.Duration) *Runner {
	return &Runner{
		dsn:      dsn,
		dir:      dir,
		keepDays: keepDays,
		interval: interval,
	}
}

func (r *Runner) Name() string {
	return "db-backup"
}

func (r *Runner) Interval() time.Duration {
	return r.interval
}

func (r *Runner) Run(ctx context.Context) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup dir: %w", err)
	}

	filename := fmt.Sprintf("loyalty_backup_%s.dump", time.Now().Format("20060102_150405"))
	path := filepath.Join(r.dir, filename)

	cmd := exec.CommandContext(ctx, "pg_dump",
		"--dbname="+r.dsn,
		"--format=custom",
		"--file="+path,
		"--no-password",
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		// ลบไฟล์ที่เขียนค้างไว้ทิ้งก่อน
		if _, statErr := os.Stat(path); statErr == nil {
			if rmErr := os.Remove(path); rmErr != nil {
				logger.Log.Error(fmt.Sprintf("Error removing incomplete backup file %s: %v", path, rmErr))
			}
		}
		return fmt.Errorf("pg_dump failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	logger.Log.Info(fmt.Sprintf("Database backup successful: %s", path))
	r.cleanupOldBackups()
	return nil
}

func (r *Runner) cleanupOldBackups() {
	if r.keepDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -r.keepDays)
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		logger.Log.Error(fmt.Sprintf("Error reading backup dir for cleanup: %v", err))
		return
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".dump" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(r.dir, entry.Name())); err != nil {
				logger.Log.Error(fmt.Sprintf("Error deleting old backup %s: %v", entry.Name(), err))
				continue
			}
			deleted++
		}
	}

	if deleted > 0 {
		logger.Log.Info(fmt.Sprintf("Backup cleanup finished, deleted %d old backups", deleted))
	}
}
