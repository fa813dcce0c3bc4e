package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taskboard/taskboard-server/internal/domain"
	"github.com/taskboard/taskboard-server/internal/store"
)

const tagColumns = "id, user_id, name, created_at, updated_at"

func scanTag(row interface{ Scan(...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &t, nil
}

// CreateTag inserts a tag. A duplicate name for the same user returns
// store.ErrAlreadyExists.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		tag.ID, tag.UserID, tag.Name,
		formatTime(tag.CreatedAt), formatTime(tag.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// GetTag returns the tag with the given ID.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE id = ?", id)

	tag, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// GetTagByName returns a user's tag by exact name.
func (s *Store) GetTagByName(ctx context.Context, userID, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE user_id = ? AND name = ?", userID, name)

	tag, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return tag, nil
}

// GetTagsByIDs returns the tags matching the given IDs. Missing IDs are
// simply absent from the result; callers compare lengths to detect them.
func (s *Store) GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE id IN ("+placeholders+") ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("get tags by ids: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// ListTags returns all of a user's tags, ordered by name.
func (s *Store) ListTags(ctx context.Context, userID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

func collectTags(rows *sql.Rows) ([]*domain.Tag, error) {
	tags := []*domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
