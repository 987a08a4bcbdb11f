package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"cocktailbar/internal/bar"
	"cocktailbar/internal/db"
	"cocktailbar/internal/handlers"
	applog "cocktailbar/internal/log"
	"cocktailbar/internal/notify"
	"cocktailbar/internal/uploads"
)

const (
	defaultSessionLifetime = 24 * time.Hour
	defaultCookieName      = "cocktailbar_session"
	defaultStaticDir       = "public"
	defaultAdminPassword   = "change-me"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr                string
	Session             SessionConfig
	Database            *gorm.DB
	StaticDir           string
	UploadDir           string
	UploadMaxBytes      int64
	AdminPassword       string
	PublicBaseURL       string
	Notify              notify.Config
	RequireInstructions bool
}

// SessionConfig controls session behavior for the HTTP server. Lifetime is
// an absolute limit measured from sign-in; activity does not extend it.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()
	applog.Debug(ctx, "initializing server",
		"addr", cfg.Addr,
		"sessionLifetime", cfg.Session.Lifetime.String(),
		"sessionCookie", cfg.Session.CookieName,
	)

	if cfg.Database == nil {
		return nil, errors.New("server: database is required")
	}

	sessionManager := newSessionManager(cfg.Session)

	staticDir := strings.TrimSpace(cfg.StaticDir)
	if staticDir == "" {
		staticDir = defaultStaticDir
	}
	uploadDir := strings.TrimSpace(cfg.UploadDir)
	if uploadDir == "" {
		uploadDir = filepath.Join(staticDir, "uploads")
	}
	maxBytes := cfg.UploadMaxBytes
	if maxBytes <= 0 {
		maxBytes = uploads.DefaultMaxBytes
	}
	files, err := uploads.New(uploadDir, maxBytes)
	if err != nil {
		return nil, err
	}
	applog.Debug(ctx, "upload directory ready", "dir", files.Dir(), "maxBytes", files.MaxBytes())

	password := cfg.AdminPassword
	if password == "" {
		applog.Debug(ctx, "admin password not provided, using default")
		password = defaultAdminPassword
	}
	hash, err := handlers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(cfg.Notify)
	applog.Debug(ctx, "order notifications configured",
		"direct", dispatcher.DirectEnabled(),
		"any", dispatcher.Configured(),
	)

	service := bar.NewService(db.NewStore(cfg.Database), files, dispatcher, bar.Options{
		RequireInstructions: cfg.RequireInstructions,
	})

	h, err := handlers.New(handlers.Dependencies{
		Sessions:          sessionManager,
		Service:           service,
		AdminPasswordHash: hash,
		PublicBaseURL:     cfg.PublicBaseURL,
		MaxUploadBytes:    files.MaxBytes(),
	})
	if err != nil {
		return nil, err
	}
	applog.Debug(ctx, "handler dependencies configured")

	handler := applog.Middleware(sessionManager.LoadAndSave(newRouter(h, staticDir, files.Dir())))

	applog.Debug(ctx, "http handler chain prepared")

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func newSessionManager(cfg SessionConfig) *scs.SessionManager {
	if cfg.Lifetime <= 0 {
		applog.Debug(context.Background(), "session lifetime not provided, using default")
		cfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		applog.Debug(context.Background(), "session cookie name not provided, using default")
		cfg.CookieName = defaultCookieName
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Lifetime
	sessionManager.IdleTimeout = 0
	sessionManager.Cookie.Name = cfg.CookieName
	sessionManager.Cookie.Domain = cfg.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.CookieSecure

	applog.Debug(context.Background(), "session manager configured",
		"cookieName", cfg.CookieName,
		"cookieDomain", cfg.CookieDomain,
		"cookieSecure", cfg.CookieSecure,
	)
	return sessionManager
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
