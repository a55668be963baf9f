package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/auth"
	"github.com/newsguild/warboard/internal/models"
	"github.com/newsguild/warboard/internal/services"
	"github.com/newsguild/warboard/internal/validation"
	"github.com/newsguild/warboard/internal/view"
)

type AuthHandler struct {
	db    *gorm.DB
	users *services.UserService
}

func NewAuthHandler(db *gorm.DB, users *services.UserService) *AuthHandler {
	return &AuthHandler{db: db, users: users}
}

// registrationForm echoes submitted values back into the form.
type registrationForm struct {
	UserName string
	Faction  string
}

func (h *AuthHandler) Registration(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view.Render(w, r, "registration.html", map[string]any{
			"Form":   registrationForm{},
			"Errors": validation.Violations{},
		})
		return
	}

	userName := r.FormValue("username")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")
	faction := r.FormValue("faction")

	v := make(validation.Violations)
	validation.Required("username", userName, v)
	validation.Length("username", userName, 1, 50, v)
	validation.Required("password", password, v)
	validation.Match("confirm", password, confirm, v)
	validation.OneOf("faction", faction, v, models.FactionAlliance, models.FactionHorde)

	form := registrationForm{UserName: userName, Faction: faction}
	if !v.Empty() {
		view.Render(w, r, "registration.html", map[string]any{"Form": form, "Errors": v})
		return
	}

	if _, err := h.users.Register(userName, password, faction); err != nil {
		if errors.Is(err, services.ErrNameTaken) {
			v["username"] = "name_not_available"
			view.Render(w, r, "registration.html", map[string]any{"Form": form, "Errors": v})
			return
		}
		view.Render(w, r, "registration.html", map[string]any{"Form": form, "Errors": v, "Error": "registration failed"})
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view.Render(w, r, "login.html", map[string]any{"UserName": ""})
		return
	}

	userName := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.users.Authenticate(userName, password)
	if err != nil {
		// Same message whether the user is unknown or the password is
		// wrong, so the form cannot be used to probe for accounts.
		view.Render(w, r, "login.html", map[string]any{
			"Error":    services.ErrBadCredentials.Error(),
			"UserName": userName,
		})
		return
	}

	auth.CreateSession(w, user.ID)
	auth.SetPrefs(w, auth.DefaultPrefs())
	http.Redirect(w, r, "/index", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	auth.ClearPrefs(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
