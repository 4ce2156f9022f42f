// Package db はgormによるデータベース接続を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 対応するドライバー名。
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// ErrUnsupportedDriver は未対応のドライバー名が指定された場合に返されます。
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Opener はDSNからDB接続を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// NewOpener はドライバー名に対応するOpenerを返します。
func NewOpener(driver string) (Opener, error) {
	var dialect func(string) gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialect = postgres.Open
	case DriverSQLite:
		dialect = sqlite.Open
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dialect(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}, nil
}

// ConnectWithRetry はtimeoutまでinterval間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// OpenDB はデータベースに接続し、指定されたモデルのマイグレーションを行います。
func OpenDB(driver, dsn string, models ...any) (*gorm.DB, error) {
	open, err := NewOpener(driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(dsn, connectTimeout, retryInterval, open)
	if err != nil {
		return nil, err
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	slog.Info("DB connection successful", "driver", driver)
	return db, nil
}
