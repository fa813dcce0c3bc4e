package domain

import (
	"strings"
	"time"

	"github.com/taskboard/taskboard-server/internal/errors"
)

// User represents an account in the system. Every task, category, and tag
// references an owning user; ownership determines access rights.
// The ID is assigned on persist and never changes. PasswordHash is the
// argon2id encoded digest - plaintext never leaves the auth boundary.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser creates a user, validating email and name.
// The password hash is produced by the auth package, not here.
func NewUser(id, email, name, passwordHash string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.Validation("a valid email address is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("user name cannot be empty")
	}

	now := time.Now().UTC()
	return &User{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// Rename changes the display name, rejecting empty values.
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.Validation("user name cannot be empty")
	}
	u.Name = name
	u.Touch()
	return nil
}
