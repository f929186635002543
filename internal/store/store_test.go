package store_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/genuxhq/genux-api/internal/store"
	"github.com/genuxhq/genux-api/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool + cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("genux_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Run migrations
	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

func newUser(email string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Name:         "A",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now().UTC(),
	}
}

func newKey(userID uuid.UUID, name, secret string) *models.APIKey {
	return &models.APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Key:       secret,
		CreatedAt: time.Now().UTC(),
	}
}

// --- User Tests ---

func TestCreateAndGetUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	user := newUser("a@x.com")
	require.NoError(t, s.CreateUser(ctx, user))

	byEmail, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Nil(t, byEmail.LastLogin)
	assert.Nil(t, byEmail.UpdatedAt)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("a@x.com")))

	err := s.CreateUser(ctx, newUser("a@x.com"))
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestGetUser_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	user := newUser("a@x.com")
	require.NoError(t, s.CreateUser(ctx, user))

	avatar := "data:image/png;base64,iVBORw0KGgo="
	user.Name = "A2"
	user.Email = "a2@x.com"
	user.ProfilePicture = &avatar
	require.NoError(t, s.UpdateUser(ctx, user))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Name)
	assert.Equal(t, "a2@x.com", got.Email)
	require.NotNil(t, got.ProfilePicture)
	assert.Equal(t, avatar, *got.ProfilePicture)
	assert.NotNil(t, got.UpdatedAt)
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("a@x.com")))
	other := newUser("b@x.com")
	require.NoError(t, s.CreateUser(ctx, other))

	other.Email = "a@x.com"
	err := s.UpdateUser(ctx, other)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestTouchLastLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	user := newUser("a@x.com")
	require.NoError(t, s.CreateUser(ctx, user))
	require.NoError(t, s.TouchLastLogin(ctx, user.ID))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}

// --- API Key Tests ---

func TestCreateAndListAPIKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	user := newUser("a@x.com")
	require.NoError(t, s.CreateUser(ctx, user))

	first := newKey(user.ID, "one", "sk-1111")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second := newKey(user.ID, "two", "sk-2222")
	require.NoError(t, s.CreateAPIKey(ctx, first))
	require.NoError(t, s.CreateAPIKey(ctx, second))

	keys, err := s.ListAPIKeys(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	// Newest first
	assert.Equal(t, "two", keys[0].Name)
	assert.Equal(t, "one", keys[1].Name)
	assert.Nil(t, keys[0].LastUsed)
}

func TestDeleteAPIKey_ScopedToOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	owner := newUser("a@x.com")
	stranger := newUser("b@x.com")
	require.NoError(t, s.CreateUser(ctx, owner))
	require.NoError(t, s.CreateUser(ctx, stranger))

	key := newKey(owner.ID, "dev", "sk-abcd")
	require.NoError(t, s.CreateAPIKey(ctx, key))

	err := s.DeleteAPIKey(ctx, key.ID, stranger.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteAPIKey(ctx, key.ID, owner.ID))

	keys, err := s.ListAPIKeys(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGetAPIKeyBySecretAndLastUsed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	user := newUser("a@x.com")
	require.NoError(t, s.CreateUser(ctx, user))

	key := newKey(user.ID, "dev", "sk-abcd")
	require.NoError(t, s.CreateAPIKey(ctx, key))

	got, err := s.GetAPIKeyBySecret(ctx, "sk-abcd")
	require.NoError(t, err)
	assert.Equal(t, key.ID, got.ID)
	assert.Nil(t, got.LastUsed)

	require.NoError(t, s.UpdateAPIKeyLastUsed(ctx, key.ID))

	got, err = s.GetAPIKeyBySecret(ctx, "sk-abcd")
	require.NoError(t, err)
	assert.NotNil(t, got.LastUsed)

	_, err = s.GetAPIKeyBySecret(ctx, "sk-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAPIKey_DuplicateSecret(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	user := newUser("a@x.com")
	require.NoError(t, s.CreateUser(ctx, user))

	require.NoError(t, s.CreateAPIKey(ctx, newKey(user.ID, "one", "sk-same")))
	err := s.CreateAPIKey(ctx, newKey(user.ID, "two", "sk-same"))
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}
