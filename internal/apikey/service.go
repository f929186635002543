// Package apikey manages opaque per-user bearer secrets.
package apikey

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/genuxhq/genux-api/internal/store"
	"github.com/genuxhq/genux-api/pkg/models"
	"github.com/google/uuid"
)

// KeyPrefix is the fixed literal prefix of every issued secret.
const KeyPrefix = "sk-"

const keyRandomBytes = 32

var (
	ErrNameRequired = errors.New("api key name is required")
	ErrInvalidKey   = errors.New("invalid api key")
)

// Service generates, lists, verifies, and revokes API keys.
type Service struct {
	store store.Store
}

// NewService creates an API key service backed by the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Create issues a new key for the user. The plaintext secret is returned
// exactly here; name must be non-empty after trimming.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*models.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	// Defensive check that the owner still exists.
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	key := &models.APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Key:       secret,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("persist api key: %w", err)
	}
	return key, nil
}

// List returns all keys owned by the user, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*models.APIKey, error) {
	return s.store.ListAPIKeys(ctx, userID)
}

// Delete removes a key scoped to its owner. A key owned by someone else is
// indistinguishable from a missing one.
func (s *Service) Delete(ctx context.Context, userID, keyID uuid.UUID) error {
	return s.store.DeleteAPIKey(ctx, keyID, userID)
}

// Verify resolves a raw bearer secret to its key record and stamps
// last_used. Unknown or malformed secrets return ErrInvalidKey.
func (s *Service) Verify(ctx context.Context, rawKey string) (*models.APIKey, error) {
	if !strings.HasPrefix(rawKey, KeyPrefix) {
		return nil, ErrInvalidKey
	}

	key, err := s.store.GetAPIKeyBySecret(ctx, rawKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidKey
	}
	if err != nil {
		return nil, fmt.Errorf("look up api key: %w", err)
	}

	if err := s.store.UpdateAPIKeyLastUsed(ctx, key.ID); err != nil {
		return nil, fmt.Errorf("update api key last used: %w", err)
	}
	now := time.Now().UTC()
	key.LastUsed = &now
	return key, nil
}

// generateSecret produces "sk-" followed by 64 hex characters (32 random bytes).
func generateSecret() (string, error) {
	raw := make([]byte, keyRandomBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key secret: %w", err)
	}
	return KeyPrefix + hex.EncodeToString(raw), nil
}
