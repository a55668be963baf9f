package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/auth"
	"github.com/newsguild/warboard/internal/services"
	"github.com/newsguild/warboard/internal/validation"
	"github.com/newsguild/warboard/internal/view"
)

type NewsHandler struct {
	db   *gorm.DB
	feed *services.FeedService
	news *services.NewsService
}

func NewNewsHandler(db *gorm.DB, feed *services.FeedService, news *services.NewsService) *NewsHandler {
	return &NewsHandler{db: db, feed: feed, news: news}
}

// newsForm echoes submitted values back into the form.
type newsForm struct {
	Title   string
	Content string
}

// Index renders the viewer's feed.
func (h *NewsHandler) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	prefs := auth.PrefsFromContext(r.Context())
	items, err := h.feed.Feed(user, prefs)
	if err != nil {
		http.Error(w, "failed to load feed", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "index.html", map[string]any{
		"User":  user,
		"Items": items,
		"Prefs": prefs,
	})
}

// AddNews renders and processes the post form.
func (h *NewsHandler) AddNews(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		view.Render(w, r, "add_news.html", map[string]any{
			"User":   user,
			"Form":   newsForm{},
			"Errors": validation.Violations{},
		})
		return
	}

	title := r.FormValue("title")
	body := r.FormValue("content")

	v := make(validation.Violations)
	validation.Required("title", title, v)
	validation.Length("title", title, 1, 100, v)
	validation.Required("content", body, v)
	validation.Length("content", body, 1, 1000, v)

	if !v.Empty() {
		view.Render(w, r, "add_news.html", map[string]any{
			"User":   user,
			"Form":   newsForm{Title: title, Content: body},
			"Errors": v,
		})
		return
	}

	if _, err := h.news.Create(user, title, body); err != nil {
		http.Error(w, "failed to create news", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, returnTarget(r), http.StatusSeeOther)
}

// Delete removes a post when the viewer is its author or an admin.
// Business-rule failures redirect back rather than rendering an error
// page.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if id, ok := pathID(r); ok {
		_ = h.news.Delete(user, id)
	}
	http.Redirect(w, r, returnTarget(r), http.StatusSeeOther)
}

// Hide suppresses a post from the viewer's own feed.
func (h *NewsHandler) Hide(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if id, ok := pathID(r); ok {
		_ = h.news.Hide(user.ID, id)
	}
	http.Redirect(w, r, returnTarget(r), http.StatusSeeOther)
}

// Show undoes Hide.
func (h *NewsHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if id, ok := pathID(r); ok {
		_ = h.news.Unhide(user.ID, id)
	}
	http.Redirect(w, r, returnTarget(r), http.StatusSeeOther)
}

// Sort switches the feed sort key. Pure cookie mutation.
func (h *NewsHandler) Sort(w http.ResponseWriter, r *http.Request) {
	prefs := auth.PrefsFromContext(r.Context())
	if mode := r.PathValue("mode"); mode == auth.SortByID || mode == auth.SortByTitle {
		prefs.SortBy = mode
	}
	auth.SetPrefs(w, prefs)
	http.Redirect(w, r, returnTarget(r), http.StatusSeeOther)
}

// Reverse toggles the sort direction. Pure cookie mutation.
func (h *NewsHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	prefs := auth.PrefsFromContext(r.Context())
	prefs.Reverse = !prefs.Reverse
	auth.SetPrefs(w, prefs)
	http.Redirect(w, r, returnTarget(r), http.StatusSeeOther)
}
