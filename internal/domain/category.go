package domain

import (
	"strings"
	"time"

	"github.com/taskboard/taskboard-server/internal/errors"
)

// maxNameLength bounds category and tag names.
const maxNameLength = 50

// Category represents a user-owned grouping of tasks (a board column).
// Names are unique per user; the storage layer enforces that with a
// uniqueness constraint so concurrent duplicate inserts are rejected.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCategory creates a category, validating the name and owner.
func NewCategory(id, name, userID string) (*Category, error) {
	name, err := validateName(name, "category")
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, errors.Validation("category must be associated with a user")
	}

	now := time.Now().UTC()
	return &Category{
		ID:        id,
		Name:      name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename changes the category name, re-validating it.
func (c *Category) Rename(name string) error {
	name, err := validateName(name, "category")
	if err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// validateName trims and bounds-checks an entity name.
func validateName(name, kind string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.Validationf("%s name cannot be empty", kind)
	}
	if len(name) > maxNameLength {
		return "", errors.Validationf("%s name must not exceed %d characters", kind, maxNameLength)
	}
	return name, nil
}
