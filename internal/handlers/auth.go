package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	applog "cocktailbar/internal/log"
	"cocktailbar/internal/views/pages"
)

const sessionAdminKey = "admin:authenticated"

const msgWrongPassword = "Incorrect password."

// HashPassword hashes the configured admin password once at start-up.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// IsAdmin reports whether the request carries an admin session.
func (h *Handler) IsAdmin(r *http.Request) bool {
	return h.sessions.GetBool(r.Context(), sessionAdminKey)
}

// RequireAdmin lets the request through only for admin sessions.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.IsAdmin(r) {
			applog.Debug(r.Context(), "admin session required", "path", r.URL.Path)
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginForm renders the admin login page.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.IsAdmin(r) {
		applog.Debug(r.Context(), "active admin session, redirecting to dashboard")
		redirectToAdmin(w, r)
		return
	}
	h.render(w, r, http.StatusOK, pages.AdminLogin(""))
}

// Login checks the submitted password and opens an admin session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.IsAdmin(r) {
		redirectToAdmin(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse login form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	password := r.PostFormValue("password")
	if err := bcrypt.CompareHashAndPassword(h.adminHash, []byte(password)); err != nil {
		applog.Info(r.Context(), "admin login rejected", "remote", r.RemoteAddr)
		h.render(w, r, http.StatusUnauthorized, pages.AdminLogin(msgWrongPassword))
		return
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.sessions.Put(r.Context(), sessionAdminKey, true)
	applog.Info(r.Context(), "admin signed in", "remote", r.RemoteAddr)
	redirectToAdmin(w, r)
}

// Logout destroys the session and returns to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		applog.Error(r.Context(), "failed to destroy session", "error", err)
	}
	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/admin/login", nil)
}

func redirectToAdmin(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/admin", nil)
}
