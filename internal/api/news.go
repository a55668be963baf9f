// Package api implements the stateless JSON REST surface. It mirrors
// the payload shapes of the legacy board API exactly: objects nested
// under "news"/"users", {"success":"OK"} on mutations, and
// {"error":"News <id> not found"} style 404s. No session checks apply
// on this surface.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/httpx"
	"github.com/newsguild/warboard/internal/models"
	"github.com/newsguild/warboard/internal/services"
)

// newsPayload is the wire form of a post on this surface.
type newsPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  uint   `json:"user_id"`
}

func newsToPayload(n *models.News) newsPayload {
	return newsPayload{Title: n.Title, Content: n.Body, UserID: n.AuthorID}
}

// decodeForm reads a request body as JSON, falling back to form
// fields for legacy clients. Missing fields stay nil.
type newsForm struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	UserID  *uint   `json:"user_id"`
}

func decodeNewsForm(r *http.Request) (newsForm, error) {
	var f newsForm
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&f)
		return f, err
	}
	if err := r.ParseForm(); err != nil {
		return f, err
	}
	if v := r.PostFormValue("title"); v != "" {
		f.Title = &v
	}
	if v := r.PostFormValue("content"); v != "" {
		f.Content = &v
	}
	if v := r.PostFormValue("user_id"); v != "" {
		id64, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, err
		}
		id := uint(id64)
		f.UserID = &id
	}
	return f, nil
}

type NewsAPI struct {
	db   *gorm.DB
	news *services.NewsService
}

func NewNewsAPI(db *gorm.DB, news *services.NewsService) *NewsAPI {
	return &NewsAPI{db: db, news: news}
}

// List returns every post keyed by id.
func (a *NewsAPI) List(w http.ResponseWriter, r *http.Request) {
	var all []models.News
	if err := a.db.Order("id").Find(&all).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make(map[string]newsPayload, len(all))
	for i := range all {
		out[strconv.FormatUint(uint64(all[i].ID), 10)] = newsToPayload(&all[i])
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"news": out})
}

// Get returns a single post or a 404 payload naming the id.
func (a *NewsAPI) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := apiID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not found")
		return
	}
	news, err := a.news.ByID(id)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("News %d not found", id))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"news": newsToPayload(news)})
}

// Create requires title, content and user_id. The author must exist;
// display fields are denormalized from it like on the HTML surface.
func (a *NewsAPI) Create(w http.ResponseWriter, r *http.Request) {
	f, err := decodeNewsForm(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	switch {
	case f.Title == nil:
		httpx.JSONError(w, http.StatusBadRequest, "title is required")
		return
	case f.Content == nil:
		httpx.JSONError(w, http.StatusBadRequest, "content is required")
		return
	case f.UserID == nil:
		httpx.JSONError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var author models.User
	if err := a.db.First(&author, *f.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("User %d not found", *f.UserID))
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, err := a.news.Create(&author, *f.Title, *f.Content); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK)
}

// Update applies a partial update. An empty body changes nothing and
// still reports success.
func (a *NewsAPI) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not found")
		return
	}
	news, err := a.news.ByID(id)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("News %d not found", id))
		return
	}
	f, err := decodeNewsForm(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if f.Title != nil {
		news.Title = *f.Title
	}
	if f.Content != nil {
		news.Body = *f.Content
	}
	if err := a.db.Save(news).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK)
}

// Delete removes the post and every hidden reference to it.
func (a *NewsAPI) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not found")
		return
	}
	if _, err := a.news.ByID(id); err != nil {
		httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("News %d not found", id))
		return
	}
	if err := a.news.Purge(id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK)
}

// NotFound is the fallback for unmatched API routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusNotFound, "Not found")
}

func apiID(r *http.Request) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}
