package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"

	"cocktailbar/internal/bar"
	applog "cocktailbar/internal/log"
	"cocktailbar/internal/views/pages"
)

// Dependencies are the collaborators shared by every handler.
type Dependencies struct {
	Sessions          *scs.SessionManager
	Service           *bar.Service
	AdminPasswordHash []byte
	PublicBaseURL     string
	MaxUploadBytes    int64
}

// Handler serves the customer and admin routes.
type Handler struct {
	sessions       *scs.SessionManager
	service        *bar.Service
	adminHash      []byte
	publicBaseURL  string
	maxUploadBytes int64
}

// New builds a Handler from its dependencies.
func New(deps Dependencies) (*Handler, error) {
	if deps.Sessions == nil {
		return nil, errors.New("handlers: session manager is required")
	}
	if deps.Service == nil {
		return nil, errors.New("handlers: service is required")
	}
	if len(deps.AdminPasswordHash) == 0 {
		return nil, errors.New("handlers: admin password hash is required")
	}
	return &Handler{
		sessions:       deps.Sessions,
		service:        deps.Service,
		adminHash:      deps.AdminPasswordHash,
		publicBaseURL:  deps.PublicBaseURL,
		maxUploadBytes: deps.MaxUploadBytes,
	}, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "path", r.URL.Path, "error", err)
	}
}

// handleError is the last resort for failures nothing else recovered from.
// Admin pages fall back to the login form carrying the error text.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	applog.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	if isAdminPath(r.URL.Path) {
		h.render(w, r, http.StatusInternalServerError, pages.AdminLogin(err.Error()))
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "no route matched", "method", r.Method, "path", r.URL.Path)
	h.render(w, r, http.StatusNotFound, pages.NotFound())
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// redirect sends a 303 to path with the non-empty params as query string.
func redirect(w http.ResponseWriter, r *http.Request, path string, params map[string]string) {
	query := url.Values{}
	for key, value := range params {
		if value != "" {
			query.Set(key, value)
		}
	}
	target := path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
