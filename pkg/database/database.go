package database

import (
	"fmt"

	"github.com/Payphone-Digital/catalog/config"
	"gorm.io/gorm"
)

// Open connects to the database selected by cfg.Driver
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dbConfig := DefaultConfig()
	dbConfig.Host = cfg.Host
	dbConfig.Port = cfg.Port
	dbConfig.User = cfg.User
	dbConfig.Password = cfg.Password
	dbConfig.Database = cfg.Name
	if cfg.SSLMode != "" {
		dbConfig.SSLMode = cfg.SSLMode
	}
	if cfg.MaxIdleConns > 0 {
		dbConfig.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxOpenConns > 0 {
		dbConfig.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime > 0 {
		dbConfig.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		dbConfig.ConnMaxIdleTime = cfg.ConnMaxIdleTime
	}
	if cfg.SlowThreshold > 0 {
		dbConfig.SlowThreshold = cfg.SlowThreshold
	}

	switch cfg.Driver {
	case "postgres", "":
		return NewPostgresDB(dbConfig)
	case "sqlite":
		return NewSQLiteDB(cfg.SQLitePath, dbConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
