package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/services"
	"github.com/newsguild/warboard/internal/view"
)

type GuildHandler struct {
	db    *gorm.DB
	guild *services.GuildService
}

func NewGuildHandler(db *gorm.DB, guild *services.GuildService) *GuildHandler {
	return &GuildHandler{db: db, guild: guild}
}

// View lists the viewer's guild members.
func (h *GuildHandler) View(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "")
}

// Add links the viewer with the user id from the form. Rule failures
// re-render the guild page with a message instead of redirecting away.
func (h *GuildHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	targetID, _ := strconv.ParseUint(r.FormValue("user_id"), 10, 64)
	err := h.guild.Add(user, uint(targetID))
	switch {
	case err == nil:
		http.Redirect(w, r, "/guild", http.StatusSeeOther)
	case errors.Is(err, services.ErrSelfLink):
		h.render(w, r, "you cannot add yourself")
	case errors.Is(err, services.ErrNotFound):
		h.render(w, r, "no such user")
	case errors.Is(err, services.ErrFactionMismatch):
		h.render(w, r, "guilds accept members of one faction only")
	default:
		h.render(w, r, "failed to update the guild")
	}
}

// Remove unlinks the viewer from the user id in the path. Always
// redirects; a half-missing link is repaired, not reported.
func (h *GuildHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if id, ok := pathID(r); ok {
		_ = h.guild.Remove(user, id)
	}
	http.Redirect(w, r, "/guild", http.StatusSeeOther)
}

func (h *GuildHandler) render(w http.ResponseWriter, r *http.Request, errMsg string) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	members, err := h.guild.Members(user.ID)
	if err != nil {
		http.Error(w, "failed to load guild", http.StatusInternalServerError)
		return
	}
	data := map[string]any{"User": user, "Members": members}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	view.Render(w, r, "guild.html", data)
}
