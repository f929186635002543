package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/genuxhq/genux-api/internal/api/middleware"
	"github.com/genuxhq/genux-api/internal/api/response"
	"github.com/genuxhq/genux-api/internal/apikey"
	"github.com/genuxhq/genux-api/internal/store"
	"github.com/genuxhq/genux-api/pkg/models"
	"github.com/google/uuid"
)

// APIKeyService defines the interface the API key handlers depend on.
type APIKeyService interface {
	Create(ctx context.Context, userID uuid.UUID, name string) (*models.APIKey, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.APIKey, error)
	Delete(ctx context.Context, userID, keyID uuid.UUID) error
	Verify(ctx context.Context, rawKey string) (*models.APIKey, error)
}

// keyView is the list entry shape returned to clients.
type keyView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key"`
	CreatedAt time.Time  `json:"createdAt"`
	LastUsed  *time.Time `json:"lastUsed"`
}

// NewCreateKeyHandler returns an http.HandlerFunc for POST /apikeys/create.
func NewCreateKeyHandler(svc APIKeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		key, err := svc.Create(r.Context(), userID, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, apikey.ErrNameRequired):
				response.Error(w, http.StatusBadRequest, "API key name is required")
			case errors.Is(err, store.ErrNotFound):
				response.Error(w, http.StatusNotFound, "User not found")
			default:
				response.Error(w, http.StatusInternalServerError, "Failed to create API key")
			}
			return
		}

		response.OK(w, map[string]any{
			"success": true,
			"apiKey":  key.Key,
			"keyId":   key.ID,
		})
	}
}

// NewListKeysHandler returns an http.HandlerFunc for GET /apikeys/list.
func NewListKeysHandler(svc APIKeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		keys, err := svc.List(r.Context(), userID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch API keys")
			return
		}

		views := make([]keyView, 0, len(keys))
		for _, k := range keys {
			views = append(views, keyView{
				ID:        k.ID,
				Name:      k.Name,
				Key:       k.Key,
				CreatedAt: k.CreatedAt,
				LastUsed:  k.LastUsed,
			})
		}

		response.OK(w, map[string]any{
			"success": true,
			"apiKeys": views,
		})
	}
}

// NewDeleteKeyHandler returns an http.HandlerFunc for DELETE /apikeys/delete.
// Deletion is scoped to the caller; another user's key reads as missing.
func NewDeleteKeyHandler(svc APIKeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			KeyID string `json:"keyId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		keyID, err := uuid.Parse(req.KeyID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid key ID")
			return
		}

		if err := svc.Delete(r.Context(), userID, keyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "API key not found")
				return
			}
			response.Error(w, http.StatusInternalServerError, "Failed to delete API key")
			return
		}

		response.OK(w, map[string]any{
			"success": true,
			"message": "API key deleted successfully",
		})
	}
}

// NewVerifyKeyHandler returns an http.HandlerFunc for POST /apikeys/verify.
// Consumers present the key as a Bearer token; each successful verification
// stamps last_used.
func NewVerifyKeyHandler(svc APIKeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawKey := extractBearerToken(r)
		if rawKey == "" {
			response.Error(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		key, err := svc.Verify(r.Context(), rawKey)
		if err != nil {
			if errors.Is(err, apikey.ErrInvalidKey) {
				response.Error(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			response.Error(w, http.StatusInternalServerError, "Failed to verify API key")
			return
		}

		response.OK(w, map[string]any{
			"valid":  true,
			"keyId":  key.ID,
			"name":   key.Name,
			"userId": key.UserID,
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
