package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
)

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTMX(req) {
		t.Fatal("expected false when no HTMX headers present")
	}
	req.Header.Set("HX-Request", "true")
	if !isHTMX(req) {
		t.Fatal("expected true when HX-Request header present")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(Dependencies{}); err == nil {
		t.Fatal("expected error without session manager")
	}
	if _, err := New(Dependencies{Sessions: scs.New()}); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("change-me")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte("change-me")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestIsAdmin(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	ctx, err := env.sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	if env.h.IsAdmin(req) {
		t.Fatal("expected fresh session not to be admin")
	}
	env.sm.Put(req.Context(), sessionAdminKey, true)
	if !env.h.IsAdmin(req) {
		t.Fatal("expected admin flag to be honoured")
	}
}

func TestRequireAdminRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	guarded := env.h.RequireAdmin(http.HandlerFunc(env.h.Dashboard))

	rr := env.serve(guarded, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if loc := location(t, rr); loc.Path != "/admin/login" {
		t.Fatalf("expected redirect to /admin/login, got %q", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("HX-Request", "true")
	rr = env.serve(guarded, req)
	if rr.Header().Get("HX-Redirect") != "/admin/login" {
		t.Fatalf("expected HX-Redirect header for HTMX requests")
	}
}

func TestLoginWithWrongPassword(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rr := env.serve(http.HandlerFunc(env.h.Login), formRequest(http.MethodPost, "/admin/login", url.Values{"password": {"guess"}}))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), msgWrongPassword) {
		t.Fatalf("expected error message in login page: %s", rr.Body.String())
	}

	guarded := env.h.RequireAdmin(http.HandlerFunc(env.h.Dashboard))
	rr = env.serve(guarded, httptest.NewRequest(http.MethodGet, "/admin", nil), rr.Result().Cookies()...)
	if loc := location(t, rr); loc.Path != "/admin/login" {
		t.Fatalf("expected dashboard to redirect to login, got %q", loc)
	}
}

func TestLoginGrantsAccessUntilLogout(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	cookies := env.login(t)

	guarded := env.h.RequireAdmin(http.HandlerFunc(env.h.Dashboard))
	rr := env.serve(guarded, httptest.NewRequest(http.MethodGet, "/admin", nil), cookies...)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected dashboard to render, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "<h1>Dashboard</h1>") {
		t.Fatalf("expected dashboard markup: %s", rr.Body.String())
	}

	rr = env.serve(http.HandlerFunc(env.h.LoginForm), httptest.NewRequest(http.MethodGet, "/admin/login", nil), cookies...)
	if loc := location(t, rr); loc.Path != "/admin" {
		t.Fatalf("expected active session to skip the login form, got %q", loc)
	}

	rr = env.serve(http.HandlerFunc(env.h.Logout), httptest.NewRequest(http.MethodPost, "/admin/logout", nil), cookies...)
	if loc := location(t, rr); loc.Path != "/admin/login" {
		t.Fatalf("expected logout to redirect to login, got %q", loc)
	}

	rr = env.serve(guarded, httptest.NewRequest(http.MethodGet, "/admin", nil), cookies...)
	if loc := location(t, rr); loc.Path != "/admin/login" {
		t.Fatalf("expected destroyed session to lose access, got %q", loc)
	}
}

func TestLoginFormRendersForGuests(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rr := env.serve(http.HandlerFunc(env.h.LoginForm), httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `type="password"`) {
		t.Fatalf("expected password field: %s", rr.Body.String())
	}
}
