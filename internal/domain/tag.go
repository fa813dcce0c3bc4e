package domain

import (
	"time"

	"github.com/taskboard/taskboard-server/internal/errors"
)

// Tag represents a user-owned label that can be attached to any number of tasks.
// Like categories, tag names are unique per user. Tags have no update or
// delete operations at the use-case layer; orphaned tags persist.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTag creates a tag, validating the name and owner.
func NewTag(id, name, userID string) (*Tag, error) {
	name, err := validateName(name, "tag")
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, errors.Validation("tag must be associated with a user")
	}

	now := time.Now().UTC()
	return &Tag{
		ID:        id,
		Name:      name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
