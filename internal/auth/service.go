package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genuxhq/genux-api/internal/store"
	"github.com/genuxhq/genux-api/pkg/models"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so that login failures do not leak user existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
)

// Service authenticates credentials and manages the session lifecycle.
type Service struct {
	store store.Store
	codec *TokenCodec
}

// NewService creates an auth service backed by the given store and token codec.
func NewService(s store.Store, codec *TokenCodec) *Service {
	return &Service{store: s, codec: codec}
}

// Register creates a new account. The email precheck gives a friendly
// message; the unique index on users.email is what actually guarantees
// uniqueness under concurrent registration.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login validates credentials and issues a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// CurrentUser resolves a session token to its user record and touches
// last_login. Callers treat any returned error as "not authenticated".
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("touch last login: %w", err)
	}
	now := time.Now().UTC()
	user.LastLogin = &now
	return user, nil
}
