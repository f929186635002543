package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genuxhq/genux-api/internal/api/middleware"
	"github.com/genuxhq/genux-api/internal/api/response"
	"github.com/genuxhq/genux-api/internal/auth"
	"github.com/genuxhq/genux-api/internal/profile"
	"github.com/genuxhq/genux-api/internal/store"
	"github.com/genuxhq/genux-api/pkg/models"
	"github.com/google/uuid"
)

// ProfileService defines the interface the profile handler depends on.
type ProfileService interface {
	Update(ctx context.Context, userID uuid.UUID, params profile.UpdateParams) (*models.User, error)
}

// NewProfileUpdateHandler returns an http.HandlerFunc for POST /profile/update.
func NewProfileUpdateHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req struct {
			Name            string  `json:"name"`
			Email           string  `json:"email"`
			ProfilePicture  *string `json:"profilePicture"`
			CurrentPassword string  `json:"currentPassword"`
			NewPassword     string  `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.Name == "" || req.Email == "" {
			response.Error(w, http.StatusBadRequest, "Name and email are required")
			return
		}

		user, err := svc.Update(r.Context(), userID, profile.UpdateParams{
			Name:            req.Name,
			Email:           req.Email,
			ProfilePicture:  req.ProfilePicture,
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
		})
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				response.Error(w, http.StatusNotFound, "User not found")
			case errors.Is(err, auth.ErrEmailTaken):
				response.Error(w, http.StatusBadRequest, "Email is already in use")
			case errors.Is(err, profile.ErrCurrentPasswordRequired):
				response.Error(w, http.StatusBadRequest, "Current password is required to set a new password")
			case errors.Is(err, profile.ErrWrongCurrentPassword):
				response.Error(w, http.StatusUnauthorized, "Current password is incorrect")
			default:
				response.Error(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		response.OK(w, map[string]any{
			"success": true,
			"message": "Profile updated successfully",
			"user":    user.PublicView(),
		})
	}
}
