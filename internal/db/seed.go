package db

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/models"
)

// Seed creates the admin account and a sample post on an empty
// database. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	var admin models.User
	err := db.Where("user_name = ?", "admin").First(&admin).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin = models.User{
		UserName:     "admin",
		PasswordHash: string(hash),
		Faction:      models.FactionAlliance,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	sample := models.News{
		Title:        "SSBU",
		Body:         "No Items, Fox Only, Final Destination",
		AuthorID:     admin.ID,
		AuthorName:   admin.UserName,
		FactionBadge: admin.FactionBadge(),
		ThemeColor:   admin.ThemeColor(),
	}
	return db.Create(&sample).Error
}
