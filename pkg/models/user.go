package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account on the Genux API docs site. The password hash never
// leaves the server; clients only ever see the PublicView.
type User struct {
	ID             uuid.UUID  `db:"id"              json:"id"`
	Name           string     `db:"name"            json:"name"`
	Email          string     `db:"email"           json:"email"`
	PasswordHash   string     `db:"password_hash"   json:"-"`
	ProfilePicture *string    `db:"profile_picture" json:"profile_picture,omitempty"`
	CreatedAt      time.Time  `db:"created_at"      json:"created_at"`
	LastLogin      *time.Time `db:"last_login"      json:"last_login,omitempty"`
	UpdatedAt      *time.Time `db:"updated_at"      json:"updated_at,omitempty"`
}

// UserView is the subset of a User safe to return to clients.
type UserView struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

// PublicView strips the fields that must not be exposed.
func (u *User) PublicView() UserView {
	v := UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
	if u.ProfilePicture != nil {
		v.ProfilePicture = *u.ProfilePicture
	}
	return v
}
