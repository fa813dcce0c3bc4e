package store

import (
	"time"

	"github.com/taskboard/taskboard-server/internal/domain"
)

// Task list ordering fields.
const (
	OrderByTitle     = "title"
	OrderByPriority  = "priority"
	OrderByDueDate   = "dueDate"
	OrderByCreatedAt = "createdAt"
)

// Task list ordering directions.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Pagination bounds. Limits outside [1, MaxPageLimit] are rejected by the
// use-case layer before the filter reaches the store.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPageLimit = 100
)

// TaskFilter describes a bounded, ordered page of one user's tasks.
// All filter fields are optional; supplied fields combine conjunctively.
// Search matches case-insensitively against title or description.
type TaskFilter struct {
	Completed   *bool
	Priority    domain.Priority
	CategoryID  string
	DueDateFrom *time.Time // Inclusive lower bound
	DueDateTo   *time.Time // Inclusive upper bound
	Search      string

	OrderBy        string // One of the OrderBy* constants; default createdAt
	OrderDirection string // asc or desc; default desc

	Page  int // 1-based
	Limit int // Rows per page, at most MaxPageLimit
}

// DefaultTaskFilter returns a filter with default ordering and pagination.
func DefaultTaskFilter() TaskFilter {
	return TaskFilter{
		OrderBy:        OrderByCreatedAt,
		OrderDirection: OrderDesc,
		Page:           DefaultPage,
		Limit:          DefaultLimit,
	}
}

// Offset returns the number of rows to skip for the requested page.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TaskPage is one page of filtered results plus pagination metadata.
// Total counts every row matching the filter, independent of pagination;
// a page past the end of the data yields an empty Tasks slice.
type TaskPage struct {
	Tasks      []*domain.Task
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// NewTaskPage assembles page metadata, computing TotalPages = ceil(total/limit).
func NewTaskPage(tasks []*domain.Task, filter TaskFilter, total int) *TaskPage {
	totalPages := 0
	if total > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return &TaskPage{
		Tasks:      tasks,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
