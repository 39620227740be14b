package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orazbekov/ratehub/internal/config"
	"github.com/orazbekov/ratehub/internal/models"
)

// Connect opens the database and returns the handle. Repositories receive
// it by injection; there is no package-level connection.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// Translate driver duplicate-key errors to gorm.ErrDuplicatedKey so
		// the admission layer can surface a conflict instead of a 500.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.Review{},
		&models.Comment{},
	)
}
