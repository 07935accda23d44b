package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
)

const logRetentionSweepInterval = 24 * time.Hour

// StartLogRetentionCleaner removes rotated evoai-*.log files older than retentionDays from logDir.
// It sweeps once immediately and then daily until ctx is cancelled.
func StartLogRetentionCleaner(ctx context.Context, retentionDays int, logDir string) {
	if retentionDays <= 0 || strings.TrimSpace(logDir) == "" {
		Logger.Debug("log retention disabled",
			zap.Int("log_retention_days", retentionDays),
			zap.String("log_dir", logDir))
		return
	}

	sweep := func() {
		removed, err := removeRotatedLogs(logDir, time.Now().UTC().AddDate(0, 0, -retentionDays))
		if err != nil {
			Logger.Warn("log retention sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			Logger.Info("removed rotated log files", zap.Int("count", removed))
		}
	}
	sweep()

	go func() {
		ticker := time.NewTicker(logRetentionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				Logger.Debug("log retention cleaner stopped")
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}

// removeRotatedLogs deletes daily log files last modified before cutoff.
// The single-file mode log (evoai.log) is never touched.
func removeRotatedLogs(logDir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "read log directory")
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "evoai-") || !strings.HasSuffix(name, ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(logDir, name)
		if err := os.Remove(path); err != nil {
			Logger.Warn("failed to delete expired log file", zap.String("log_path", path), zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}
