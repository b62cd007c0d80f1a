package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trading-journal-go/internal/models"
)

// NewDatabase opens the sqlite journal database, migrates the schema and
// applies the given seed. The seed is passed in explicitly so callers (and
// tests) control exactly what a fresh journal starts with; there is no
// package-level default.
func NewDatabase(dsn string, seed Seed) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := ApplySeed(db, seed); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the journal tables. Existing rows are kept; a
// journal is append-only and must survive restarts.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Trade{},
		&models.Session{},
		&models.Symbol{},
		&models.Settings{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
