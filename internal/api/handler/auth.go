package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/genuxhq/genux-api/internal/api/middleware"
	"github.com/genuxhq/genux-api/internal/api/response"
	"github.com/genuxhq/genux-api/internal/auth"
	"github.com/genuxhq/genux-api/pkg/models"
)

// AuthService defines the interface the auth handlers depend on.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	// Secure is set outside local development.
	Secure bool
	// MaxAge is the cookie lifetime in seconds (matches the token TTL).
	MaxAge int
}

func setSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// NewRegisterHandler returns an http.HandlerFunc for POST /register.
func NewRegisterHandler(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			response.Error(w, http.StatusBadRequest, "Name, email, and password are required")
			return
		}

		_, err := svc.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				response.Error(w, http.StatusConflict, "Email is already in use")
				return
			}
			response.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		response.Created(w, map[string]any{
			"success": true,
			"message": "User registered successfully",
		})
	}
}

// NewLoginHandler returns an http.HandlerFunc for POST /login.
func NewLoginHandler(svc AuthService, cookies CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.Email == "" || req.Password == "" {
			response.Error(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		token, user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				response.Error(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			response.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		setSessionCookie(w, cookies, token)
		response.OK(w, map[string]any{
			"success": true,
			"message": "Login successful",
			"user":    user.PublicView(),
		})
	}
}

// NewLogoutHandler returns an http.HandlerFunc for POST /logout. Logging
// out without a session is still a success.
func NewLogoutHandler(cookies CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w, cookies)
		response.OK(w, map[string]any{
			"success": true,
			"message": "Logged out successfully",
		})
	}
}

// NewCheckHandler returns an http.HandlerFunc for GET /auth/check. Every
// failure mode downgrades to {authenticated:false} with status 200; a
// missing session is a normal state, not a fault.
func NewCheckHandler(svc AuthService) http.HandlerFunc {
	notAuthenticated := map[string]any{"authenticated": false}

	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(middleware.SessionCookieName)
		if err != nil || cookie.Value == "" {
			response.OK(w, notAuthenticated)
			return
		}

		user, err := svc.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			response.OK(w, notAuthenticated)
			return
		}

		response.OK(w, map[string]any{
			"authenticated": true,
			"user":          user.PublicView(),
		})
	}
}
