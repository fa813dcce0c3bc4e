package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-server/internal/domain"
	domainerrors "github.com/taskboard/taskboard-server/internal/errors"
	"github.com/taskboard/taskboard-server/internal/id"
	"github.com/taskboard/taskboard-server/internal/store"
)

// CategoryService orchestrates category operations.
// Category names are unique per user.
type CategoryService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger,
	}
}

// CreateCategoryRequest contains the data for a new category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// UpdateCategoryRequest renames a category.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// Create makes a new category for the user.
// A duplicate name is reported as a conflict.
func (s *CategoryService) Create(ctx context.Context, userID string, req CreateCategoryRequest) (*domain.Category, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	categoryID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	category, err := domain.NewCategory(categoryID, req.Name, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("category with this name already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created", "category_id", categoryID, "user_id", userID)
	return category, nil
}

// List returns all of the user's categories.
func (s *CategoryService) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Update renames one of the user's categories.
func (s *CategoryService) Update(ctx context.Context, userID, categoryID string, req UpdateCategoryRequest) (*domain.Category, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	category, err := s.getOwned(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("category with this name already exists")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes one of the user's categories. Tasks in the category are
// detached, not deleted.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	if _, err := s.getOwned(ctx, userID, categoryID); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.Info("category deleted", "category_id", categoryID, "user_id", userID)
	return nil
}

// getOwned fetches a category and verifies the caller owns it.
func (s *CategoryService) getOwned(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("category not found")
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category.UserID != userID {
		return nil, domainerrors.Forbidden("you do not have access to this category")
	}
	return category, nil
}
