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

// TagService orchestrates tag operations. Tags are user-owned labels;
// names are unique per user. Tags are never deleted through the API, so
// labels stay stable even when no task references them.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// CreateTagRequest contains the data for a new tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// Create makes a new tag for the user.
// A duplicate name is reported as a conflict.
func (s *TagService) Create(ctx context.Context, userID string, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag, err := domain.NewTag(tagID, req.Name, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("tag with this name already exists")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tagID, "user_id", userID)
	return tag, nil
}

// List returns all of the user's tags.
func (s *TagService) List(ctx context.Context, userID string) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
