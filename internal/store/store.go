// Package store defines the persistence ports consumed by the use-case layer.
// Implementations live in subpackages (sqlite); use-cases never see SQL.
package store

import (
	"context"
	"errors"

	"github.com/taskboard/taskboard-server/internal/domain"
)

// Sentinel errors returned by store implementations.
// Uniqueness violations are reported by the storage engine's constraints,
// which is the authoritative guard against check-then-act races.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrEmailExists   = errors.New("email already in use")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// TaskStore persists tasks together with their tag associations.
// CreateTask and UpdateTask write the task row and its task_tags rows
// atomically; UpdateTask replaces the association set wholesale.
type TaskStore interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id string) error
	FindTasks(ctx context.Context, userID string, filter TaskFilter) (*TaskPage, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, userID, name string) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// TagStore persists tags.
type TagStore interface {
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, userID, name string) (*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error)
	ListTags(ctx context.Context, userID string) ([]*domain.Tag, error)
}

// Store is the composite persistence port wired into the services.
type Store interface {
	UserStore
	TaskStore
	CategoryStore
	TagStore

	Close() error
}
