package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/api"
	"github.com/newsguild/warboard/internal/auth"
	"github.com/newsguild/warboard/internal/handlers"
	"github.com/newsguild/warboard/internal/models"
	"github.com/newsguild/warboard/internal/services"
	"github.com/newsguild/warboard/internal/storage"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, avatars storage.AvatarStore) *App {
	app := &App{mux: http.NewServeMux(), db: db}

	users := services.NewUserService(db)
	feed := services.NewFeedService(db)
	news := services.NewNewsService(db)
	guild := services.NewGuildService(db)

	ah := handlers.NewAuthHandler(db, users)
	nh := handlers.NewNewsHandler(db, feed, news)
	gh := handlers.NewGuildHandler(db, guild)
	sh := handlers.NewSettingsHandler(db, users, avatars)
	uh := handlers.NewUsersHandler(db, users, feed, avatars)

	newsAPI := api.NewNewsAPI(db, news)
	usersAPI := api.NewUsersAPI(db, users)

	mux := app.mux

	// ─────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /registration", ah.Registration)
	mux.HandleFunc("POST /registration", ah.Registration)
	mux.HandleFunc("GET /login", ah.Login)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /logout", ah.Logout)
	mux.HandleFunc("GET /avatar/{id}", uh.Avatar)

	// ─────────────────────────────────────────────────────────────────
	// Authenticated routes (require logged-in user)
	// ─────────────────────────────────────────────────────────────────
	mux.Handle("GET /index", app.requireAuth(http.HandlerFunc(nh.Index)))
	mux.Handle("GET /add_news", app.requireAuth(http.HandlerFunc(nh.AddNews)))
	mux.Handle("POST /add_news", app.requireAuth(http.HandlerFunc(nh.AddNews)))
	mux.Handle("GET /delete_news/{id}", app.requireAuth(http.HandlerFunc(nh.Delete)))
	mux.Handle("GET /hide_news/{id}", app.requireAuth(http.HandlerFunc(nh.Hide)))
	mux.Handle("GET /show_news/{id}", app.requireAuth(http.HandlerFunc(nh.Show)))
	mux.Handle("GET /sort_news/{mode}", app.requireAuth(http.HandlerFunc(nh.Sort)))
	mux.Handle("GET /reverse_news", app.requireAuth(http.HandlerFunc(nh.Reverse)))

	mux.Handle("GET /guild", app.requireAuth(http.HandlerFunc(gh.View)))
	mux.Handle("POST /guild/add", app.requireAuth(http.HandlerFunc(gh.Add)))
	mux.Handle("GET /guild/remove/{id}", app.requireAuth(http.HandlerFunc(gh.Remove)))

	mux.Handle("GET /settings", app.requireAuth(http.HandlerFunc(sh.View)))
	mux.Handle("POST /settings/username", app.requireAuth(http.HandlerFunc(sh.Rename)))
	mux.Handle("POST /settings/password", app.requireAuth(http.HandlerFunc(sh.Password)))
	mux.Handle("POST /settings/avatar", app.requireAuth(http.HandlerFunc(sh.Avatar)))

	mux.Handle("GET /user/{id}", app.requireAuth(http.HandlerFunc(uh.Profile)))

	// ─────────────────────────────────────────────────────────────────
	// Admin routes (role attribute, not a username literal)
	// ─────────────────────────────────────────────────────────────────
	mux.Handle("GET /admin", app.requireAuth(app.requireAdmin(http.HandlerFunc(uh.Admin))))

	// ─────────────────────────────────────────────────────────────────
	// JSON REST surface (stateless, no session checks)
	// ─────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /api/news", newsAPI.List)
	mux.HandleFunc("POST /api/news", newsAPI.Create)
	mux.HandleFunc("GET /api/news/{id}", newsAPI.Get)
	mux.HandleFunc("PUT /api/news/{id}", newsAPI.Update)
	mux.HandleFunc("DELETE /api/news/{id}", newsAPI.Delete)
	mux.HandleFunc("GET /api/users", usersAPI.List)
	mux.HandleFunc("POST /api/users", usersAPI.Create)
	mux.HandleFunc("GET /api/user/{id}", usersAPI.Get)
	mux.HandleFunc("PUT /api/user/{id}", usersAPI.Update)
	mux.HandleFunc("DELETE /api/user/{id}", usersAPI.Delete)
	mux.HandleFunc("/api/", api.NotFound)

	// ─────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return app
}

// ServeHTTP implements http.Handler. Global middleware: session
// parsing plus feed preference cookies.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := auth.Middleware(auth.PrefsMiddleware(a.mux))
	handler.ServeHTTP(w, r)
}

// requireAuth wraps a handler to require authentication.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// requireAdmin wraps a handler to require the admin role.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		var user models.User
		if err := a.db.First(&user, uid).Error; err != nil || !user.IsAdmin() {
			http.Redirect(w, r, "/index", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
