package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.News{}, &models.HiddenNews{}, &models.GuildLink{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustRegister(t *testing.T, users *UserService, name, password, faction string) *models.User {
	t.Helper()
	u, err := users.Register(name, password, faction)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func mustPost(t *testing.T, news *NewsService, author *models.User, title, body string) *models.News {
	t.Helper()
	n, err := news.Create(author, title, body)
	if err != nil {
		t.Fatalf("create news %q: %v", title, err)
	}
	return n
}
