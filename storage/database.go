package storage

import (
	"fmt"

	"skillswap-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection. The handle is passed to handlers and
// services by the caller; nothing in this package holds global state.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("storage: empty connection string")
	}

	// TranslateError surfaces unique-constraint violations as
	// gorm.ErrDuplicatedKey so handlers can answer 409 instead of 500.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Swap{},
		&models.Feedback{},
		&models.LoginLog{},
		&models.AuditLog{},
	)
}
