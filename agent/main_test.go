package agent

import (
	"context"
	"testing"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evoai/commerce-agent/common/logger"
	"github.com/evoai/commerce-agent/common/random"
	"github.com/evoai/commerce-agent/model"
)

// setupCatalog installs an in-memory database with the demo catalog seeded at now.
func setupCatalog(t *testing.T, now time.Time) context.Context {
	t.Helper()

	dsn := "file:" + random.GetUUID() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.Product{}, &model.Order{}, &model.AgentTrace{}))

	original := model.DB
	model.DB = gdb
	model.InvalidateProductCache()
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
		model.DB = original
		model.InvalidateProductCache()
	})

	ctx := gmw.SetLogger(context.Background(), logger.Logger)
	require.NoError(t, model.SeedCatalog(ctx, now))
	return ctx
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}
