package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/taskboard/taskboard-server/internal/errors"
	"github.com/taskboard/taskboard-server/internal/service"
)

func (s *Server) registerTaskRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createTask",
		Method:        http.MethodPost,
		Path:          "/api/v1/tasks",
		Summary:       "Create task",
		Description:   "Creates a new task for the current user",
		Tags:          []string{"Tasks"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTasks",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks",
		Summary:     "List tasks",
		Description: "Returns a filtered, ordered page of the current user's tasks",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTasks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTask",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Get task",
		Description: "Returns a task by ID",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTask",
		Method:      http.MethodPut,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Update task",
		Description: "Partially updates a task; tagIds, when present, replaces the tag set",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeTask",
		Method:      http.MethodPost,
		Path:        "/api/v1/tasks/{id}/complete",
		Summary:     "Complete task",
		Description: "Marks a task as completed; completing twice is a no-op",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCompleteTask)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteTask",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tasks/{id}",
		Summary:       "Delete task",
		Description:   "Deletes a task",
		Tags:          []string{"Tasks"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteTask)
}

// === DTOs ===

// CreateTaskRequest is the request body for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title" doc:"Task title"`
	Description string     `json:"description,omitempty" doc:"Task description"`
	Priority    string     `json:"priority,omitempty" doc:"Priority (low, medium, high); defaults to medium"`
	DueDate     *time.Time `json:"dueDate,omitempty" doc:"Due date"`
	CategoryID  string     `json:"categoryId,omitempty" doc:"Category to file the task under"`
	TagIDs      []string   `json:"tagIds,omitempty" doc:"Tags to attach"`
}

// CreateTaskInput wraps the create task request for Huma.
type CreateTaskInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateTaskRequest
}

// TaskOutput wraps a single task response for Huma.
type TaskOutput struct {
	Body TaskResponse
}

// ListTasksInput contains query parameters for listing tasks.
type ListTasksInput struct {
	Authorization  string `header:"Authorization"`
	Completed      string `query:"completed" doc:"Filter by completion (true or false)"`
	Priority       string `query:"priority" doc:"Filter by priority (low, medium, high)"`
	CategoryID     string `query:"categoryId" doc:"Filter by category"`
	DueDateFrom    string `query:"dueDateFrom" doc:"Inclusive due date lower bound (RFC 3339 or YYYY-MM-DD)"`
	DueDateTo      string `query:"dueDateTo" doc:"Inclusive due date upper bound (RFC 3339 or YYYY-MM-DD)"`
	Search         string `query:"search" doc:"Case-insensitive substring match on title or description"`
	OrderBy        string `query:"orderBy" doc:"Ordering field (title, priority, dueDate, createdAt)"`
	OrderDirection string `query:"orderDirection" doc:"Ordering direction (asc or desc)"`
	Page           int    `query:"page" doc:"Page number (1-based)"`
	Limit          int    `query:"limit" doc:"Rows per page (1-100)"`
}

// ListTasksResponse contains one page of tasks.
type ListTasksResponse struct {
	Tasks      []TaskResponse     `json:"tasks" doc:"Tasks on this page"`
	Pagination PaginationResponse `json:"pagination" doc:"Page metadata"`
}

// ListTasksOutput wraps the list tasks response for Huma.
type ListTasksOutput struct {
	Body ListTasksResponse
}

// GetTaskInput contains parameters for getting a task.
type GetTaskInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Task ID"`
}

// UpdateTaskRequest is the request body for partially updating a task.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty" doc:"New title"`
	Description  *string    `json:"description,omitempty" doc:"New description"`
	Completed    *bool      `json:"completed,omitempty" doc:"New completion state"`
	Priority     *string    `json:"priority,omitempty" doc:"New priority (low, medium, high)"`
	DueDate      *time.Time `json:"dueDate,omitempty" doc:"New due date"`
	ClearDueDate bool       `json:"clearDueDate,omitempty" doc:"Remove the due date"`
	CategoryID   *string    `json:"categoryId,omitempty" doc:"New category; empty string detaches"`
	TagIDs       *[]string  `json:"tagIds,omitempty" doc:"Replacement tag set"`
}

// UpdateTaskInput wraps the update task request for Huma.
type UpdateTaskInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Task ID"`
	Body          UpdateTaskRequest
}

// DeleteTaskInput contains parameters for deleting a task.
type DeleteTaskInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Task ID"`
}

// DeleteOutput is an empty response for deletions.
type DeleteOutput struct{}

// === Handlers ===

func (s *Server) handleCreateTask(ctx context.Context, input *CreateTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Create(ctx, userID, service.CreateTaskRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Priority:    input.Body.Priority,
		DueDate:     input.Body.DueDate,
		CategoryID:  input.Body.CategoryID,
		TagIDs:      input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}
	return &TaskOutput{Body: mapTask(task)}, nil
}

func (s *Server) handleListTasks(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.ListTasksRequest{
		Priority:       input.Priority,
		CategoryID:     input.CategoryID,
		Search:         input.Search,
		OrderBy:        input.OrderBy,
		OrderDirection: input.OrderDirection,
		Page:           input.Page,
		Limit:          input.Limit,
	}

	if req.Completed, err = parseOptionalBool(input.Completed, "completed"); err != nil {
		return nil, err
	}
	if req.DueDateFrom, err = parseOptionalDate(input.DueDateFrom, "dueDateFrom"); err != nil {
		return nil, err
	}
	if req.DueDateTo, err = parseOptionalDate(input.DueDateTo, "dueDateTo"); err != nil {
		return nil, err
	}

	page, err := s.services.Task.List(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	tasks, pagination := mapTaskPage(page)
	return &ListTasksOutput{Body: ListTasksResponse{
		Tasks:      tasks,
		Pagination: pagination,
	}}, nil
}

func (s *Server) handleGetTask(ctx context.Context, input *GetTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &TaskOutput{Body: mapTask(task)}, nil
}

func (s *Server) handleUpdateTask(ctx context.Context, input *UpdateTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Update(ctx, userID, input.ID, service.UpdateTaskRequest{
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Completed:    input.Body.Completed,
		Priority:     input.Body.Priority,
		DueDate:      input.Body.DueDate,
		ClearDueDate: input.Body.ClearDueDate,
		CategoryID:   input.Body.CategoryID,
		TagIDs:       input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}
	return &TaskOutput{Body: mapTask(task)}, nil
}

func (s *Server) handleCompleteTask(ctx context.Context, input *GetTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Complete(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &TaskOutput{Body: mapTask(task)}, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, input *DeleteTaskInput) (*DeleteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Task.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}

// parseOptionalBool parses an optional true/false query value.
func parseOptionalBool(value, name string) (*bool, error) {
	switch value {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, domainerrors.Validationf("%s must be true or false", name)
	}
}

// parseOptionalDate parses an optional RFC 3339 timestamp or plain date.
func parseOptionalDate(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	return nil, domainerrors.Validationf("%s must be an RFC 3339 timestamp or YYYY-MM-DD date", name)
}
