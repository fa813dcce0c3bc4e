package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskboard/taskboard-server/internal/domain"
	domainerrors "github.com/taskboard/taskboard-server/internal/errors"
	"github.com/taskboard/taskboard-server/internal/id"
	"github.com/taskboard/taskboard-server/internal/store"
)

// TaskService orchestrates task operations. Every operation on an
// existing task checks existence before ownership, so a caller probing
// someone else's task ID gets a 403, not a 404.
type TaskService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(store store.Store, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
	}
}

// CreateTaskRequest contains the data for a new task.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	CategoryID  string     `json:"categoryId"`
	TagIDs      []string   `json:"tagIds"`
}

// UpdateTaskRequest is a partial update: nil fields are left unchanged.
// TagIDs, when present, replaces the task's tag set wholesale.
// CategoryID set to the empty string detaches the task from its category;
// ClearDueDate removes the due date.
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	Completed    *bool      `json:"completed"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	CategoryID   *string    `json:"categoryId"`
	TagIDs       *[]string  `json:"tagIds"`
}

// ListTasksRequest selects, orders, and paginates a user's tasks.
// All fields are optional; filters combine conjunctively.
type ListTasksRequest struct {
	Completed   *bool      `json:"completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	CategoryID  string     `json:"categoryId"`
	DueDateFrom *time.Time `json:"dueDateFrom"`
	DueDateTo   *time.Time `json:"dueDateTo"`
	Search      string     `json:"search" validate:"omitempty,max=200"`

	OrderBy        string `json:"orderBy" validate:"omitempty,oneof=title priority dueDate createdAt"`
	OrderDirection string `json:"orderDirection" validate:"omitempty,oneof=asc desc"`

	Page  int `json:"page" validate:"omitempty,gte=1"`
	Limit int `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// Create makes a new task for the user. The category and every tag, when
// given, must exist and belong to the same user.
func (s *TaskService) Create(ctx context.Context, userID string, req CreateTaskRequest) (*domain.Task, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != "" {
		if err := s.checkCategory(ctx, userID, req.CategoryID); err != nil {
			return nil, err
		}
	}

	tags, err := s.resolveTags(ctx, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	taskID, err := id.Generate(id.PrefixTask)
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	task, err := domain.NewTask(taskID, req.Title, req.Description, userID, priority, req.DueDate)
	if err != nil {
		return nil, err
	}
	task.CategoryID = req.CategoryID
	task.SetTags(tags)

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created", "task_id", taskID, "user_id", userID)
	return task, nil
}

// Get returns one of the user's tasks by ID.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.getOwned(ctx, userID, taskID)
}

// List returns a filtered, ordered page of the user's tasks.
func (s *TaskService) List(ctx context.Context, userID string, req ListTasksRequest) (*store.TaskPage, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	filter := store.DefaultTaskFilter()
	filter.Completed = req.Completed
	filter.Priority = domain.Priority(req.Priority)
	filter.CategoryID = req.CategoryID
	filter.DueDateFrom = req.DueDateFrom
	filter.DueDateTo = req.DueDateTo
	filter.Search = req.Search
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDirection != "" {
		filter.OrderDirection = req.OrderDirection
	}
	if req.Page != 0 {
		filter.Page = req.Page
	}
	if req.Limit != 0 {
		filter.Limit = req.Limit
	}

	page, err := s.store.FindTasks(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return page, nil
}

// Update applies a partial update to one of the user's tasks.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, req UpdateTaskRequest) (*domain.Task, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := validTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if req.Completed != nil {
		if *req.Completed {
			task.MarkComplete()
		} else {
			task.MarkIncomplete()
		}
	}
	switch {
	case req.ClearDueDate:
		task.DueDate = nil
	case req.DueDate != nil:
		task.DueDate = req.DueDate
	}
	if req.CategoryID != nil {
		if *req.CategoryID != "" {
			if err := s.checkCategory(ctx, userID, *req.CategoryID); err != nil {
				return nil, err
			}
		}
		task.CategoryID = *req.CategoryID
	}
	if req.TagIDs != nil {
		tags, err := s.resolveTags(ctx, userID, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		task.SetTags(tags)
	}

	task.Touch()
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Complete marks a task as done. Completing an already-completed task
// succeeds without changing anything.
func (s *TaskService) Complete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.MarkComplete()
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := s.getOwned(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info("task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

// getOwned fetches a task and verifies the caller owns it.
func (s *TaskService) getOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("task not found")
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.UserID != userID {
		return nil, domainerrors.Forbidden("you do not have access to this task")
	}
	return task, nil
}

// checkCategory verifies a category exists and belongs to the user.
func (s *TaskService) checkCategory(ctx context.Context, userID, categoryID string) error {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("category not found")
		}
		return fmt.Errorf("get category: %w", err)
	}
	if category.UserID != userID {
		return domainerrors.Forbidden("you do not have access to this category")
	}
	return nil
}

// resolveTags loads tags by ID and verifies each belongs to the user.
// Duplicate IDs in the input collapse to one tag.
func (s *TaskService) resolveTags(ctx context.Context, userID string, tagIDs []string) ([]*domain.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	unique := make([]string, 0, len(tagIDs))
	seen := make(map[string]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		if !seen[tagID] {
			seen[tagID] = true
			unique = append(unique, tagID)
		}
	}

	tags, err := s.store.GetTagsByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	if len(tags) != len(unique) {
		return nil, domainerrors.NotFound("one or more tags not found")
	}
	for _, tag := range tags {
		if tag.UserID != userID {
			return nil, domainerrors.Forbidden("you do not have access to one or more tags")
		}
	}
	return tags, nil
}

// validTitle trims a title and rejects empty results.
func validTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", domainerrors.Validation("task title cannot be empty")
	}
	return trimmed, nil
}
