package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is an opaque per-user bearer secret for programmatic access,
// distinct from the session token. The secret is generated server-side
// ("sk-" + 64 hex chars) and never derived from user input.
type APIKey struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	UserID    uuid.UUID  `db:"user_id"    json:"userId"`
	Name      string     `db:"name"       json:"name"`
	Key       string     `db:"key"        json:"key"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	LastUsed  *time.Time `db:"last_used"  json:"lastUsed"`
}
