package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/services"
	"github.com/newsguild/warboard/internal/storage"
	"github.com/newsguild/warboard/internal/validation"
	"github.com/newsguild/warboard/internal/view"
)

type SettingsHandler struct {
	db      *gorm.DB
	users   *services.UserService
	avatars storage.AvatarStore
}

func NewSettingsHandler(db *gorm.DB, users *services.UserService, avatars storage.AvatarStore) *SettingsHandler {
	return &SettingsHandler{db: db, users: users, avatars: avatars}
}

func (h *SettingsHandler) View(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, nil, "")
}

// Rename changes the username under the registration uniqueness rule.
func (h *SettingsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	newName := r.FormValue("username")
	v := make(validation.Violations)
	validation.Required("username", newName, v)
	validation.Length("username", newName, 1, 50, v)
	if !v.Empty() {
		h.render(w, r, v, "")
		return
	}

	if err := h.users.Rename(user.ID, newName); err != nil {
		if errors.Is(err, services.ErrNameTaken) {
			v["username"] = "name_not_available"
			h.render(w, r, v, "")
			return
		}
		h.render(w, r, nil, "failed to rename")
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// Password verifies the current password before accepting the new one.
func (h *SettingsHandler) Password(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	current := r.FormValue("current")
	next := r.FormValue("password")
	confirm := r.FormValue("confirm")

	v := make(validation.Violations)
	validation.Required("current", current, v)
	validation.Required("password", next, v)
	validation.Match("confirm", next, confirm, v)
	if !v.Empty() {
		h.render(w, r, v, "")
		return
	}

	if err := h.users.ChangePassword(user.ID, current, next); err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			v["current"] = "wrong_password"
			h.render(w, r, v, "")
			return
		}
		h.render(w, r, nil, "failed to change password")
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// Avatar accepts a png/gif upload within the configured size cap.
func (h *SettingsHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.render(w, r, validation.Violations{"avatar": "required"}, "")
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	stored, err := h.avatars.Save(user.ID, ext, file)
	switch {
	case errors.Is(err, storage.ErrUnsupportedFormat):
		h.render(w, r, validation.Violations{"avatar": "png_or_gif_only"}, "")
		return
	case errors.Is(err, storage.ErrTooLarge):
		h.render(w, r, validation.Violations{"avatar": "file_too_large"}, "")
		return
	case err != nil:
		h.render(w, r, nil, "failed to store avatar")
		return
	}

	if err := h.users.SetAvatarExt(user.ID, stored); err != nil {
		h.render(w, r, nil, "failed to store avatar")
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *SettingsHandler) render(w http.ResponseWriter, r *http.Request, v validation.Violations, errMsg string) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if v == nil {
		v = validation.Violations{}
	}
	data := map[string]any{"User": user, "Errors": v}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	view.Render(w, r, "settings.html", data)
}
