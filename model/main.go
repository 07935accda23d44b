package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evoai/commerce-agent/common"
	"github.com/evoai/commerce-agent/common/config"
	"github.com/evoai/commerce-agent/common/logger"
)

var DB *gorm.DB

func chooseDB(dsn string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return openPostgreSQL(dsn)
	case dsn != "":
		return openMySQL(dsn)
	default:
		return openSQLite(common.SQLitePath)
	}
}

func openPostgreSQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using PostgreSQL as database")
	common.UsingPostgreSQL.Store(true)
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{PrepareStmt: true})
}

func openMySQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using MySQL as database")
	common.UsingMySQL.Store(true)
	normalized, err := common.NormalizeMySQLDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "normalize MySQL DSN")
	}
	return gorm.Open(mysql.Open(normalized), &gorm.Config{PrepareStmt: true})
}

func openSQLite(path string) (*gorm.DB, error) {
	logger.Logger.Info("SQL_DSN not set, using SQLite as database", zap.String("path", path))
	common.UsingSQLite.Store(true)
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", path, common.SQLiteBusyTimeout)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{PrepareStmt: true})
}

// InitDB opens the configured database, migrates the schema and, when enabled, seeds the demo catalog.
func InitDB(ctx context.Context) error {
	db, err := chooseDB(config.SQLDSN)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	if config.DebugSQLEnabled {
		logger.Logger.Debug("debug sql enabled")
		db = db.Debug()
	}
	DB = db

	if _, err = setDBConns(DB); err != nil {
		return errors.Wrap(err, "configure connection pool")
	}

	logger.Logger.Info("database migration started")
	if err = migrateDB(DB); err != nil {
		return errors.Wrap(err, "migrate database")
	}
	logger.Logger.Info("database migration completed")

	if config.SeedCatalog {
		if err = SeedCatalog(ctx, time.Now().UTC()); err != nil {
			return errors.Wrap(err, "seed catalog")
		}
	}
	return nil
}

func migrateDB(db *gorm.DB) error {
	for _, m := range []any{&Product{}, &Order{}, &AgentTrace{}} {
		if err := db.AutoMigrate(m); err != nil {
			return errors.Wrapf(err, "failed to migrate %T", m)
		}
	}
	return nil
}

func setDBConns(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sqlDB.SetMaxIdleConns(config.SQLMaxIdleConns)
	sqlDB.SetMaxOpenConns(config.SQLMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(config.SQLMaxLifetimeSeconds))

	logger.Logger.Info("database connection pool configured",
		zap.Int("max_idle_conns", config.SQLMaxIdleConns),
		zap.Int("max_open_conns", config.SQLMaxOpenConns),
		zap.Int("max_lifetime_secs", config.SQLMaxLifetimeSeconds))
	return sqlDB, nil
}

// Ping reports whether the database answers within ctx.
func Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.PingContext(ctx))
}

func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.Close())
}
