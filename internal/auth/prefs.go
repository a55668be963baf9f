package auth

import (
	"context"
	"net/http"
)

// Sort modes for the feed.
const (
	SortByID    = "id"
	SortByTitle = "title"
)

const (
	sortCookieName    = "sort_by"
	reverseCookieName = "sort_reverse"
)

// Prefs carries the viewer's feed preferences through the request
// context, replacing the ambient session dictionary of the original
// board. Populated from cookies by PrefsMiddleware.
type Prefs struct {
	SortBy  string
	Reverse bool
}

// DefaultPrefs is the state right after login: by id, ascending.
func DefaultPrefs() Prefs {
	return Prefs{SortBy: SortByID, Reverse: false}
}

type prefsCtxKey struct{}

// WithPrefs stores preferences in context.
func WithPrefs(ctx context.Context, p Prefs) context.Context {
	return context.WithValue(ctx, prefsCtxKey{}, p)
}

// PrefsFromContext retrieves preferences, defaulting when absent.
func PrefsFromContext(ctx context.Context) Prefs {
	if p, ok := ctx.Value(prefsCtxKey{}).(Prefs); ok {
		return p
	}
	return DefaultPrefs()
}

// ParsePrefs reads preference cookies, falling back to defaults for
// missing or malformed values.
func ParsePrefs(r *http.Request) Prefs {
	p := DefaultPrefs()
	if c, err := r.Cookie(sortCookieName); err == nil {
		if c.Value == SortByID || c.Value == SortByTitle {
			p.SortBy = c.Value
		}
	}
	if c, err := r.Cookie(reverseCookieName); err == nil {
		p.Reverse = c.Value == "1"
	}
	return p
}

// SetPrefs writes both preference cookies.
func SetPrefs(w http.ResponseWriter, p Prefs) {
	rev := "0"
	if p.Reverse {
		rev = "1"
	}
	http.SetCookie(w, &http.Cookie{Name: sortCookieName, Value: p.SortBy, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	http.SetCookie(w, &http.Cookie{Name: reverseCookieName, Value: rev, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ClearPrefs resets both cookies; used on logout.
func ClearPrefs(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sortCookieName, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: reverseCookieName, Value: "", Path: "/", MaxAge: -1})
}

// PrefsMiddleware injects feed preferences from cookies into the
// request context.
func PrefsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithPrefs(r.Context(), ParsePrefs(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
