package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/auth"
	"github.com/newsguild/warboard/internal/services"
	"github.com/newsguild/warboard/internal/storage"
	"github.com/newsguild/warboard/internal/view"
)

type UsersHandler struct {
	db      *gorm.DB
	users   *services.UserService
	feed    *services.FeedService
	avatars storage.AvatarStore
}

func NewUsersHandler(db *gorm.DB, users *services.UserService, feed *services.FeedService, avatars storage.AvatarStore) *UsersHandler {
	return &UsersHandler{db: db, users: users, feed: feed, avatars: avatars}
}

// Profile shows another user's page: their posts, filtered and sorted
// with the viewer's own preferences and hidden set.
func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}
	target, err := h.users.ByID(id)
	if err != nil {
		// HTML surface redirects away instead of a dedicated 404 page.
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}
	items, err := h.feed.AuthorFeed(viewer, target.ID, auth.PrefsFromContext(r.Context()))
	if err != nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "profile.html", map[string]any{
		"User":    viewer,
		"Target":  target,
		"Items":   items,
		"IsSelf":  viewer.ID == target.ID,
		"SameFaction": viewer.Faction == target.Faction,
	})
}

// Admin lists every user with their post count. Reached only through
// the admin middleware.
func (h *UsersHandler) Admin(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	infos, err := h.users.ListWithNewsCounts()
	if err != nil {
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "admin.html", map[string]any{"User": viewer, "Users": infos})
}

// Avatar serves the resolved avatar image for a user id: the uploaded
// file when present on disk, the faction default otherwise.
func (h *UsersHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, err := h.users.ByID(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, h.avatars.Resolve(user.ID, user.AvatarExt, user.Faction))
}
