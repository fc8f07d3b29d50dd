package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a file backed (or ":memory:") SQLite database through the
// pure-Go driver. It serves local runs without postgres and the test suites.
func NewSQLiteDB(path string, config Config) (*gorm.DB, error) {
	gcfg := gormConfig(config)
	gcfg.PrepareStmt = false

	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows one writer; an in-memory database also lives on a single connection
	config.MaxOpenConns = 1
	config.MaxIdleConns = 1
	config.ConnMaxLifetime = 0
	config.ConnMaxIdleTime = 0
	if err := configurePool(db, config); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Ping(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}
