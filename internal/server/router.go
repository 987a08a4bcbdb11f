package server

import (
	"context"
	"net/http"
	"strings"

	"cocktailbar/internal/handlers"
	applog "cocktailbar/internal/log"
)

func newRouter(h *handlers.Handler, staticDir, uploadDir string) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	admin := func(fn http.HandlerFunc) http.Handler {
		return h.RequireAdmin(fn)
	}

	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /qr.png", h.QRCode)
	mux.HandleFunc("GET /menu", h.Menu)
	mux.HandleFunc("POST /order", h.PlaceOrder)
	mux.HandleFunc("GET /order/success", h.OrderSuccess)
	mux.HandleFunc("GET /cocktail/{id}", h.Cocktail)
	applog.Debug(context.Background(), "customer routes registered")

	mux.HandleFunc("GET /admin/login", h.LoginForm)
	mux.HandleFunc("POST /admin/login", h.Login)
	mux.HandleFunc("POST /admin/logout", h.Logout)
	mux.Handle("GET /admin", admin(h.Dashboard))
	mux.Handle("POST /admin/cocktails", admin(h.CreateCocktail))
	mux.Handle("POST /admin/cocktails/{id}/update", admin(h.UpdateCocktail))
	mux.Handle("POST /admin/cocktails/{id}/delete", admin(h.DeleteCocktail))
	mux.Handle("POST /admin/orders/{id}/delete", admin(h.DeleteOrder))
	applog.Debug(context.Background(), "admin routes registered", "protected", true)

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", filesOnly(http.FileServer(http.Dir(uploadDir)), h)))
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", filesOnly(http.FileServer(http.Dir(staticDir)), h)))
	applog.Debug(context.Background(), "static routes registered", "static", staticDir, "uploads", uploadDir)

	mux.HandleFunc("/", h.NotFound)
	return mux
}

// filesOnly hides directory listings and dotfiles behind the 404 page.
func filesOnly(next http.Handler, h *handlers.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || strings.HasSuffix(name, "/") || strings.HasPrefix(name, ".") || strings.Contains(name, "/.") {
			h.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
