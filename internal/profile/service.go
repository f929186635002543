// Package profile mutates a user's own mutable fields.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/genuxhq/genux-api/internal/auth"
	"github.com/genuxhq/genux-api/internal/store"
	"github.com/genuxhq/genux-api/pkg/models"
	"github.com/google/uuid"
)

var (
	ErrCurrentPasswordRequired = errors.New("current password is required to set a new password")
	ErrWrongCurrentPassword    = errors.New("current password is incorrect")
)

// UpdateParams holds the requested profile changes. Nil optional fields
// leave the stored value untouched.
type UpdateParams struct {
	Name            string
	Email           string
	ProfilePicture  *string
	CurrentPassword string
	NewPassword     string
}

// Service applies profile updates.
type Service struct {
	store store.Store
}

// NewService creates a profile service backed by the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Update mutates the user's profile. A password change requires the
// correct current password; the stored hash is untouched otherwise.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, params UpdateParams) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Fast-path message only; the unique index is the real guarantee.
	if params.Email != user.Email {
		if _, err := s.store.GetUserByEmail(ctx, params.Email); err == nil {
			return nil, auth.ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("check email availability: %w", err)
		}
	}

	user.Name = params.Name
	user.Email = params.Email
	if params.ProfilePicture != nil {
		user.ProfilePicture = params.ProfilePicture
	}

	if params.NewPassword != "" {
		if params.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if !auth.CheckPassword(user.PasswordHash, params.CurrentPassword) {
			return nil, ErrWrongCurrentPassword
		}
		hash, err := auth.HashPassword(params.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash new password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, auth.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
