package model

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"

	"github.com/evoai/commerce-agent/common"
)

const (
	busyRetryAttempts  = 5
	busyRetryBaseDelay = 20 * time.Millisecond
)

// writeWithBusyRetry runs write and, on SQLite only, retries it with linear backoff while
// the database reports a lock. Trace persistence races with order cancellation on the
// single SQLite writer.
func writeWithBusyRetry(ctx context.Context, what string, write func() error) error {
	if !common.UsingSQLite.Load() {
		return write()
	}

	var lastErr error
	for attempt := 0; attempt <= busyRetryAttempts; attempt++ {
		if attempt > 0 {
			gmw.GetLogger(ctx).Debug("sqlite busy, retrying write",
				zap.String("write", what),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))

			timer := time.NewTimer(time.Duration(attempt) * busyRetryBaseDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Wrapf(lastErr, "%s: context canceled while waiting for SQLite lock", what)
			case <-timer.C:
			}
		}

		lastErr = write()
		if lastErr == nil || !isSQLiteBusy(lastErr) {
			return lastErr
		}
	}

	return errors.Wrapf(lastErr, "%s: SQLite remained busy after %d retries", what, busyRetryAttempts)
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "database is busy")
}
