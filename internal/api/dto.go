package api

import (
	"time"

	"github.com/taskboard/taskboard-server/internal/domain"
	"github.com/taskboard/taskboard-server/internal/store"
)

// Shared response DTOs. Handlers map domain entities into these so the
// wire format stays stable when the domain types change.

// UserResponse contains account data in API responses.
type UserResponse struct {
	ID        string    `json:"id" doc:"User ID"`
	Email     string    `json:"email" doc:"Email address"`
	Name      string    `json:"name" doc:"Display name"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt time.Time `json:"updatedAt" doc:"Last update time"`
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Tag name"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt time.Time `json:"updatedAt" doc:"Last update time"`
}

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID        string    `json:"id" doc:"Category ID"`
	Name      string    `json:"name" doc:"Category name"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt time.Time `json:"updatedAt" doc:"Last update time"`
}

// TaskResponse contains task data in API responses.
type TaskResponse struct {
	ID          string        `json:"id" doc:"Task ID"`
	Title       string        `json:"title" doc:"Task title"`
	Description string        `json:"description,omitempty" doc:"Task description"`
	Completed   bool          `json:"completed" doc:"Completion state"`
	Priority    string        `json:"priority" doc:"Priority (low, medium, high)"`
	DueDate     *time.Time    `json:"dueDate,omitempty" doc:"Due date"`
	CategoryID  string        `json:"categoryId,omitempty" doc:"Owning category ID"`
	Tags        []TagResponse `json:"tags" doc:"Attached tags"`
	CreatedAt   time.Time     `json:"createdAt" doc:"Creation time"`
	UpdatedAt   time.Time     `json:"updatedAt" doc:"Last update time"`
}

// PaginationResponse describes one page of a larger result set.
type PaginationResponse struct {
	Page       int `json:"page" doc:"Current page (1-based)"`
	Limit      int `json:"limit" doc:"Rows per page"`
	Total      int `json:"total" doc:"Total matching rows"`
	TotalPages int `json:"totalPages" doc:"Total pages"`
}

func mapUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func mapTag(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

func mapCategory(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func mapTask(task *domain.Task) TaskResponse {
	tags := make([]TagResponse, 0, len(task.Tags))
	for _, tag := range task.Tags {
		tags = append(tags, mapTag(tag))
	}
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CategoryID:  task.CategoryID,
		Tags:        tags,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func mapTaskPage(page *store.TaskPage) ([]TaskResponse, PaginationResponse) {
	tasks := make([]TaskResponse, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		tasks = append(tasks, mapTask(task))
	}
	return tasks, PaginationResponse{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
