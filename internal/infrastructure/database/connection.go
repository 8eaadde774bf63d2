package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/factoriobot/internal/adapters/persistence"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/config"
)

// NewConnection opens the audit-log SQLite database described by cfg.
func NewConnection(cfg *config.PersistenceConfig) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// NewTestConnection creates an in-memory SQLite database for testing.
func NewTestConnection() (*gorm.DB, error) {
	db, err := NewConnection(&config.PersistenceConfig{Path: ":memory:"})
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate test database: %w", err)
	}

	return db, nil
}

// AutoMigrate runs auto-migration for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.TaskHistoryModel{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
