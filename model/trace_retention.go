package model

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/evoai/commerce-agent/common/logger"
)

const traceRetentionSweepInterval = 6 * time.Hour

// StartTraceRetentionCleaner deletes agent traces older than retentionDays, once now and then periodically.
func StartTraceRetentionCleaner(ctx context.Context, retentionDays int) {
	if retentionDays <= 0 {
		logger.Logger.Debug("trace retention disabled")
		return
	}

	sweep := func() {
		deleted, err := CleanExpiredTraces(ctx, time.Now(), retentionDays)
		if err != nil {
			logger.Logger.Warn("trace retention cleanup failed", zap.Error(err))
			return
		}
		if deleted > 0 {
			logger.Logger.Info("deleted expired agent traces",
				zap.Int64("deleted_rows", deleted),
				zap.Int("trace_retention_days", retentionDays))
		}
	}
	sweep()

	go func() {
		ticker := time.NewTicker(traceRetentionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Logger.Info("trace retention cleaner stopped")
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}

// CleanExpiredTraces removes traces created before now minus retentionDays.
func CleanExpiredTraces(ctx context.Context, now time.Time, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := now.UTC().AddDate(0, 0, -retentionDays).UnixMilli()
	tx := DB.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&AgentTrace{})
	if tx.Error != nil {
		return 0, errors.Wrap(tx.Error, "delete expired agent traces")
	}
	return tx.RowsAffected, nil
}
