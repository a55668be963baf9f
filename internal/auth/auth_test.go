package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder, path string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundtrip(t *testing.T) {
	rec := httptest.NewRecorder()
	CreateSession(rec, 42)

	req := requestWithCookies(t, rec, "/index")
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("expected uid 42, got %d (ok=%v)", uid, ok)
	}
}

func TestSessionTamperRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	CreateSession(rec, 42)
	cookie := rec.Result().Cookies()[0]

	// Swap the uid but keep the old signature.
	parts := strings.SplitN(cookie.Value, ".", 2)
	forged := &http.Cookie{Name: cookie.Name, Value: "1." + parts[1]}

	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	req.AddCookie(forged)
	if _, ok := ParseSession(req); ok {
		t.Fatal("forged cookie accepted")
	}
}

func TestSessionMalformedRejected(t *testing.T) {
	for _, value := range []string{"", "42", "42.", ".sig", "abc.def", "42.!!!"} {
		req := httptest.NewRequest(http.MethodGet, "/index", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: value})
		if _, ok := ParseSession(req); ok {
			t.Fatalf("malformed cookie %q accepted", value)
		}
	}
}

func TestClearSession(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSession(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" {
		t.Fatalf("unexpected cookies: %v", cookies)
	}

	req := requestWithCookies(t, rec, "/index")
	if _, ok := ParseSession(req); ok {
		t.Fatal("cleared session still parses")
	}
}

func TestMiddlewareInjectsUserID(t *testing.T) {
	rec := httptest.NewRecorder()
	CreateSession(rec, 7)
	req := requestWithCookies(t, rec, "/index")

	var got uint
	var ok bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserIDFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !ok || got != 7 {
		t.Fatalf("expected uid 7 in context, got %d (ok=%v)", got, ok)
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login, got %q", loc)
	}
}

func TestRequireAuthJSONGets401(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthClearsStaleSession(t *testing.T) {
	// The verifier says the user no longer exists; the session must be
	// dropped and the request treated as anonymous.
	SetUserVerifier(func(ctx context.Context, uid uint) bool { return false })
	t.Cleanup(func() { SetUserVerifier(nil) })

	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with a stale session")
	})))

	rec := httptest.NewRecorder()
	CreateSession(rec, 42)
	req := requestWithCookies(t, rec, "/index")

	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	if out.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", out.Code)
	}
	cleared := false
	for _, c := range out.Result().Cookies() {
		if c.Name == "session" && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("stale session cookie not cleared")
	}
}

func TestParsePrefs(t *testing.T) {
	cases := []struct {
		name    string
		cookies map[string]string
		want    Prefs
	}{
		{"no cookies", nil, Prefs{SortBy: SortByID}},
		{"title asc", map[string]string{"sort_by": "title"}, Prefs{SortBy: SortByTitle}},
		{"id reversed", map[string]string{"sort_reverse": "1"}, Prefs{SortBy: SortByID, Reverse: true}},
		{"title reversed", map[string]string{"sort_by": "title", "sort_reverse": "1"}, Prefs{SortBy: SortByTitle, Reverse: true}},
		{"bogus sort falls back", map[string]string{"sort_by": "author"}, Prefs{SortBy: SortByID}},
		{"bogus reverse falls back", map[string]string{"sort_reverse": "yes"}, Prefs{SortBy: SortByID}},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/index", nil)
		for name, value := range tc.cookies {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}
		if got := ParsePrefs(req); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestSetPrefsRoundtrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetPrefs(rec, Prefs{SortBy: SortByTitle, Reverse: true})

	req := requestWithCookies(t, rec, "/index")
	got := ParsePrefs(req)
	if got.SortBy != SortByTitle || !got.Reverse {
		t.Fatalf("roundtrip lost prefs: %+v", got)
	}
}

func TestPrefsMiddleware(t *testing.T) {
	var got Prefs
	h := PrefsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PrefsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	req.AddCookie(&http.Cookie{Name: "sort_by", Value: "title"})
	req.AddCookie(&http.Cookie{Name: "sort_reverse", Value: "1"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got.SortBy != SortByTitle || !got.Reverse {
		t.Fatalf("middleware did not inject prefs: %+v", got)
	}
}
