package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taskboard/taskboard-server/internal/domain"
	"github.com/taskboard/taskboard-server/internal/store"
)

const categoryColumns = "id, user_id, name, created_at, updated_at"

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &c, nil
}

// CreateCategory inserts a category. A duplicate name for the same user
// returns store.ErrAlreadyExists.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.UserID, category.Name,
		formatTime(category.CreatedAt), formatTime(category.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetCategory returns the category with the given ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)

	category, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// GetCategoryByName returns a user's category by exact name.
func (s *Store) GetCategoryByName(ctx context.Context, userID, name string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = ? AND name = ?", userID, name)

	category, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return category, nil
}

// ListCategories returns all of a user's categories, ordered by name.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// UpdateCategory persists changes to an existing category.
func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, updated_at = ? WHERE id = ?`,
		category.Name, formatTime(category.UpdatedAt), category.ID,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Tasks in the category are detached
// by the schema's ON DELETE SET NULL, not deleted.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
