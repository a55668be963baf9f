package db

import (
	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/models"
)

// Migrate applies the gorm auto-migrations for every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.News{},
		&models.HiddenNews{},
		&models.GuildLink{},
	)
}
