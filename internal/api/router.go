package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/genuxhq/genux-api/internal/api/middleware"
	"github.com/genuxhq/genux-api/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Session   *mw.Session
	RateLimit *mw.RateLimit

	HealthHandler        http.HandlerFunc
	RegisterHandler      http.HandlerFunc
	LoginHandler         http.HandlerFunc
	LogoutHandler        http.HandlerFunc
	CheckHandler         http.HandlerFunc
	ProfileUpdateHandler http.HandlerFunc
	CreateKeyHandler     http.HandlerFunc
	ListKeysHandler      http.HandlerFunc
	DeleteKeyHandler     http.HandlerFunc
	VerifyKeyHandler     http.HandlerFunc
	CatalogHandler       http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public routes
	r.Get("/health", orNotImplemented(deps.HealthHandler))
	r.Get("/endpoints", orNotImplemented(deps.CatalogHandler))
	r.Get("/auth/check", orNotImplemented(deps.CheckHandler))
	r.Post("/logout", orNotImplemented(deps.LogoutHandler))
	r.Post("/apikeys/verify", orNotImplemented(deps.VerifyKeyHandler))

	// Credential endpoints are rate limited per client IP
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimit.Limit)

		r.Post("/register", orNotImplemented(deps.RegisterHandler))
		r.Post("/login", orNotImplemented(deps.LoginHandler))
	})

	// Session-protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Session.Require)

		r.Post("/profile/update", orNotImplemented(deps.ProfileUpdateHandler))

		r.Post("/apikeys/create", orNotImplemented(deps.CreateKeyHandler))
		r.Get("/apikeys/list", orNotImplemented(deps.ListKeysHandler))
		r.Delete("/apikeys/delete", orNotImplemented(deps.DeleteKeyHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "Endpoint not yet implemented")
	}
}
