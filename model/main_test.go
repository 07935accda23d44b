package model

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evoai/commerce-agent/common"
	"github.com/evoai/commerce-agent/common/logger"
	"github.com/evoai/commerce-agent/common/random"
)

// setupTestDatabase points DB at a fresh in-memory sqlite database seeded with the demo catalog.
func setupTestDatabase(t *testing.T, now time.Time) context.Context {
	t.Helper()

	dsn := "file:" + random.GetUUID() + "?mode=memory&cache=shared&_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrateDB(gdb))

	originalDB := DB
	DB = gdb
	InvalidateProductCache()
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
		DB = originalDB
		InvalidateProductCache()
	})

	ctx := gmw.SetLogger(context.Background(), logger.Logger)
	require.NoError(t, SeedCatalog(ctx, now))
	return ctx
}

func setupMySQLMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	originalDB := DB
	originalMySQL := common.UsingMySQL.Load()
	DB = gdb
	common.UsingMySQL.Store(true)

	t.Cleanup(func() {
		DB = originalDB
		common.UsingMySQL.Store(originalMySQL)
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return mock
}

func TestChooseDBSQLite(t *testing.T) {
	original := common.SQLitePath
	t.Cleanup(func() { common.SQLitePath = original })
	common.SQLitePath = t.TempDir() + "/evoai-test.db"

	db, err := chooseDB("")
	require.NoError(t, err)
	require.True(t, common.UsingSQLite.Load())
	require.NoError(t, migrateDB(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestChooseDBRejectsBadMySQLDSN(t *testing.T) {
	_, err := chooseDB("mysql:///missing-host")
	require.Error(t, err)
}

func TestPingAndClose(t *testing.T) {
	ctx := setupTestDatabase(t, time.Now())
	require.NoError(t, Ping(ctx))

	original := DB
	DB = nil
	require.Error(t, Ping(ctx))
	require.NoError(t, CloseDB())
	DB = original
}
