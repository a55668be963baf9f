package services

import (
	"errors"
	"testing"

	"github.com/newsguild/warboard/internal/models"
)

func TestCreateDenormalizesAuthor(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	news := NewNewsService(db)

	author := mustRegister(t, users, "sylvanas", "secret", models.FactionHorde)
	post := mustPost(t, news, author, "Banshee report", "body")

	if post.AuthorName != "sylvanas" {
		t.Fatalf("author name not copied: %q", post.AuthorName)
	}
	if post.FactionBadge != "horde" {
		t.Fatalf("faction badge not copied: %q", post.FactionBadge)
	}
	if post.ThemeColor != author.ThemeColor() {
		t.Fatalf("theme color not copied: %q", post.ThemeColor)
	}

	// A later rename must not rewrite already-posted news.
	if err := users.Rename(author.ID, "windrunner"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	fresh, err := news.ByID(post.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if fresh.AuthorName != "sylvanas" {
		t.Fatalf("rename rewrote history: %q", fresh.AuthorName)
	}
}

func TestHideIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	news := NewNewsService(db)

	author := mustRegister(t, users, "thrall", "secret", models.FactionHorde)
	viewer := mustRegister(t, users, "jaina", "secret", models.FactionAlliance)
	post := mustPost(t, news, author, "post", "body")

	for i := 0; i < 3; i++ {
		if err := news.Hide(viewer.ID, post.ID); err != nil {
			t.Fatalf("hide #%d: %v", i+1, err)
		}
	}

	var count int64
	db.Model(&models.HiddenNews{}).
		Where("user_id = ? AND news_id = ?", viewer.ID, post.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 hidden mark, got %d", count)
	}
}

func TestHideMissingNews(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	news := NewNewsService(db)

	viewer := mustRegister(t, users, "jaina", "secret", models.FactionAlliance)
	if err := news.Hide(viewer.ID, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnhideTolerant(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	news := NewNewsService(db)

	author := mustRegister(t, users, "thrall", "secret", models.FactionHorde)
	viewer := mustRegister(t, users, "jaina", "secret", models.FactionAlliance)
	post := mustPost(t, news, author, "post", "body")

	// Unhiding something never hidden must not fail.
	if err := news.Unhide(viewer.ID, post.ID); err != nil {
		t.Fatalf("unhide without mark: %v", err)
	}

	if err := news.Hide(viewer.ID, post.ID); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if err := news.Unhide(viewer.ID, post.ID); err != nil {
		t.Fatalf("unhide: %v", err)
	}
	ids, err := news.HiddenIDs(viewer.ID)
	if err != nil {
		t.Fatalf("hidden ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("mark not removed: %v", ids)
	}
}

func TestDeleteCleansHiddenReferences(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	news := NewNewsService(db)

	author := mustRegister(t, users, "thrall", "secret", models.FactionHorde)
	v1 := mustRegister(t, users, "jaina", "secret", models.FactionAlliance)
	v2 := mustRegister(t, users, "anduin", "secret", models.FactionAlliance)
	post := mustPost(t, news, author, "post", "body")

	for _, v := range []*models.User{v1, v2} {
		if err := news.Hide(v.ID, post.ID); err != nil {
			t.Fatalf("hide: %v", err)
		}
	}

	if err := news.Delete(author, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := news.ByID(post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("post still present: %v", err)
	}
	var refs int64
	db.Model(&models.HiddenNews{}).Where("news_id = ?", post.ID).Count(&refs)
	if refs != 0 {
		t.Fatalf("dangling hidden references: %d", refs)
	}
}

func TestDeleteForbiddenForOthers(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	news := NewNewsService(db)

	author := mustRegister(t, users, "thrall", "secret", models.FactionHorde)
	other := mustRegister(t, users, "jaina", "secret", models.FactionAlliance)
	post := mustPost(t, news, author, "post", "body")

	if err := news.Delete(other, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := news.ByID(post.ID); err != nil {
		t.Fatalf("post should survive a forbidden delete: %v", err)
	}

	db.Model(&models.User{}).Where("id = ?", other.ID).Update("role", models.RoleAdmin)
	admin, err := users.ByID(other.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if err := news.Delete(admin, post.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
