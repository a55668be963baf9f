package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/httpx"
	"github.com/newsguild/warboard/internal/models"
	"github.com/newsguild/warboard/internal/services"
)

// userPayload is the wire form of a user on this surface. The hash is
// exposed and stored as given here; this surface predates the HTML
// one and its contract is kept as-is.
type userPayload struct {
	UserName     string `json:"user_name"`
	PasswordHash string `json:"password_hash"`
}

type userForm struct {
	UserName     *string `json:"user_name"`
	PasswordHash *string `json:"password_hash"`
}

func decodeUserForm(r *http.Request) (userForm, error) {
	var f userForm
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&f)
		return f, err
	}
	if err := r.ParseForm(); err != nil {
		return f, err
	}
	if v := r.PostFormValue("user_name"); v != "" {
		f.UserName = &v
	}
	if v := r.PostFormValue("password_hash"); v != "" {
		f.PasswordHash = &v
	}
	return f, nil
}

type UsersAPI struct {
	db    *gorm.DB
	users *services.UserService
}

func NewUsersAPI(db *gorm.DB, users *services.UserService) *UsersAPI {
	return &UsersAPI{db: db, users: users}
}

// List returns every user keyed by id.
func (a *UsersAPI) List(w http.ResponseWriter, r *http.Request) {
	var all []models.User
	if err := a.db.Order("id").Find(&all).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make(map[string]userPayload, len(all))
	for i := range all {
		out[strconv.FormatUint(uint64(all[i].ID), 10)] = userPayload{
			UserName:     all[i].UserName,
			PasswordHash: all[i].PasswordHash,
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": out})
}

// Get returns a single user or a 404 payload naming the id.
func (a *UsersAPI) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := apiID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not found")
		return
	}
	user, err := a.users.ByID(id)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("User %d not found", id))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users": userPayload{UserName: user.UserName, PasswordHash: user.PasswordHash},
	})
}

// Create stores a user with the supplied hash as given. Collisions on
// the username report the legacy "Name not available" payload.
func (a *UsersAPI) Create(w http.ResponseWriter, r *http.Request) {
	f, err := decodeUserForm(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	switch {
	case f.UserName == nil:
		httpx.JSONError(w, http.StatusBadRequest, "user_name is required")
		return
	case f.PasswordHash == nil:
		httpx.JSONError(w, http.StatusBadRequest, "password_hash is required")
		return
	}

	user := models.User{
		UserName:     *f.UserName,
		PasswordHash: *f.PasswordHash,
		Role:         models.RoleUser,
	}
	if err := a.db.Create(&user).Error; err != nil {
		httpx.JSON(w, http.StatusOK, httpx.ErrorResponse{Error: "Name not available"})
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK)
}

// Update applies a partial update; a rename colliding with another
// user returns the legacy error payload with a 200 status.
func (a *UsersAPI) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not found")
		return
	}
	user, err := a.users.ByID(id)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("User %d not found", id))
		return
	}
	f, err := decodeUserForm(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if f.UserName != nil {
		var other models.User
		err := a.db.Where("user_name = ? AND id <> ?", *f.UserName, user.ID).First(&other).Error
		if err == nil {
			httpx.JSON(w, http.StatusOK, httpx.ErrorResponse{Error: "Name not available"})
			return
		}
		if err != gorm.ErrRecordNotFound {
			httpx.JSONError(w, http.StatusInternalServerError, "internal error")
			return
		}
		user.UserName = *f.UserName
	}
	if f.PasswordHash != nil {
		user.PasswordHash = *f.PasswordHash
	}
	if err := a.db.Save(user).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK)
}

// Delete removes the user together with their posts, hidden marks and
// guild links.
func (a *UsersAPI) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not found")
		return
	}
	if err := a.users.Delete(id); err != nil {
		if err == services.ErrNotFound {
			httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("User %d not found", id))
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK)
}
