package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTask creates a task over HTTP and returns its response body.
func (ts *testServer) createTestTask(t *testing.T, token string, body map[string]any) TaskResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/tasks", "Authorization: "+token, body)
	require.Equal(t, http.StatusCreated, resp.Code, "create task failed: %s", resp.Body.String())
	return decode[TaskResponse](t, resp.Body.Bytes())
}

func TestCreateTask(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	task := ts.createTestTask(t, token, map[string]any{
		"title":       "Write report",
		"description": "Quarterly numbers",
		"priority":    "high",
		"dueDate":     "2026-09-15T12:00:00Z",
	})

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "Quarterly numbers", task.Description)
	assert.Equal(t, "high", task.Priority)
	assert.False(t, task.Completed)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, 15, task.DueDate.Day())
	assert.Empty(t, task.Tags)
}

func TestCreateTaskDefaults(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	task := ts.createTestTask(t, token, map[string]any{"title": "Minimal"})

	assert.Equal(t, "medium", task.Priority)
	assert.False(t, task.Completed)
	assert.Nil(t, task.DueDate)
	assert.Empty(t, task.CategoryID)
}

func TestCreateTaskValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "missing title",
			body:       map[string]any{"description": "no title"},
			wantStatus: http.StatusUnprocessableEntity, // Huma returns 422 for missing required fields
		},
		{
			name:       "blank title",
			body:       map[string]any{"title": "   "},
			wantStatus: http.StatusBadRequest, // Validation errors return 400
		},
		{
			name:       "bad priority",
			body:       map[string]any{"title": "Task", "priority": "urgent"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/tasks", "Authorization: "+token, tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
		})
	}
}

func TestCreateTaskWithCategoryAndTags(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	catResp := ts.api.Post("/api/v1/category", "Authorization: "+token, map[string]any{"name": "Work"})
	require.Equal(t, http.StatusCreated, catResp.Code)
	category := decode[CategoryResponse](t, catResp.Body.Bytes())

	tagResp := ts.api.Post("/api/v1/tags", "Authorization: "+token, map[string]any{"name": "urgent"})
	require.Equal(t, http.StatusCreated, tagResp.Code)
	tag := decode[TagResponse](t, tagResp.Body.Bytes())

	task := ts.createTestTask(t, token, map[string]any{
		"title":      "Filed task",
		"categoryId": category.ID,
		"tagIds":     []string{tag.ID},
	})

	assert.Equal(t, category.ID, task.CategoryID)
	require.Len(t, task.Tags, 1)
	assert.Equal(t, "urgent", task.Tags[0].Name)
}

func TestCreateTaskUnknownCategory(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/tasks", "Authorization: "+token, map[string]any{
		"title":      "Task",
		"categoryId": "cat_doesnotexist",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestGetTask(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")
	task := ts.createTestTask(t, token, map[string]any{"title": "Readable"})

	resp := ts.api.Get("/api/v1/tasks/"+task.ID, "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, task.ID, decode[TaskResponse](t, resp.Body.Bytes()).ID)

	resp = ts.api.Get("/api/v1/tasks/task_doesnotexist", "Authorization: "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTaskOwnership(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := ts.registerTestUser(t, "alice@example.com")
	bobToken := ts.registerTestUser(t, "bob@example.com")

	task := ts.createTestTask(t, aliceToken, map[string]any{"title": "Alice's task"})

	// Another user probing a real ID sees 403, not 404.
	resp := ts.api.Get("/api/v1/tasks/"+task.ID, "Authorization: "+bobToken)
	require.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
	assert.Equal(t, "FORBIDDEN", decode[APIError](t, resp.Body.Bytes()).Code)

	resp = ts.api.Put("/api/v1/tasks/"+task.ID, "Authorization: "+bobToken, map[string]any{"title": "stolen"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/tasks/"+task.ID, "Authorization: "+bobToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// The owner still sees the original title.
	resp = ts.api.Get("/api/v1/tasks/"+task.ID, "Authorization: "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Alice's task", decode[TaskResponse](t, resp.Body.Bytes()).Title)
}

func TestUpdateTaskPartial(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")
	task := ts.createTestTask(t, token, map[string]any{
		"title":       "Original",
		"description": "Keep me",
		"priority":    "low",
		"dueDate":     "2026-09-15T12:00:00Z",
	})

	resp := ts.api.Put("/api/v1/tasks/"+task.ID, "Authorization: "+token, map[string]any{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[TaskResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Keep me", updated.Description)
	assert.Equal(t, "low", updated.Priority)
	assert.NotNil(t, updated.DueDate)
}

func TestUpdateTaskClearDueDate(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")
	task := ts.createTestTask(t, token, map[string]any{
		"title":   "Dated",
		"dueDate": "2026-09-15T12:00:00Z",
	})

	resp := ts.api.Put("/api/v1/tasks/"+task.ID, "Authorization: "+token, map[string]any{
		"clearDueDate": true,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Nil(t, decode[TaskResponse](t, resp.Body.Bytes()).DueDate)
}

func TestUpdateTaskReplaceTags(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	var tagIDs []string
	for _, name := range []string{"one", "two", "three"} {
		resp := ts.api.Post("/api/v1/tags", "Authorization: "+token, map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, resp.Code)
		tagIDs = append(tagIDs, decode[TagResponse](t, resp.Body.Bytes()).ID)
	}

	task := ts.createTestTask(t, token, map[string]any{
		"title":  "Tagged",
		"tagIds": tagIDs[:2],
	})
	require.Len(t, task.Tags, 2)

	// tagIds replaces the whole set.
	resp := ts.api.Put("/api/v1/tasks/"+task.ID, "Authorization: "+token, map[string]any{
		"tagIds": []string{tagIDs[2]},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[TaskResponse](t, resp.Body.Bytes())
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "three", updated.Tags[0].Name)

	// An empty list detaches everything.
	resp = ts.api.Put("/api/v1/tasks/"+task.ID, "Authorization: "+token, map[string]any{
		"tagIds": []string{},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[TaskResponse](t, resp.Body.Bytes()).Tags)
}

func TestCompleteTask(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")
	task := ts.createTestTask(t, token, map[string]any{"title": "Finish me"})

	resp := ts.api.Post("/api/v1/tasks/"+task.ID+"/complete", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, decode[TaskResponse](t, resp.Body.Bytes()).Completed)

	// Completing again is a no-op, not an error.
	resp = ts.api.Post("/api/v1/tasks/"+task.ID+"/complete", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[TaskResponse](t, resp.Body.Bytes()).Completed)
}

func TestDeleteTask(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")
	task := ts.createTestTask(t, token, map[string]any{"title": "Doomed"})

	resp := ts.api.Delete("/api/v1/tasks/"+task.ID, "Authorization: "+token)
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/tasks/"+task.ID, "Authorization: "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/tasks/"+task.ID, "Authorization: "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListTasks(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	ts.createTestTask(t, token, map[string]any{"title": "Buy groceries", "priority": "low"})
	ts.createTestTask(t, token, map[string]any{"title": "Write report", "priority": "high"})
	done := ts.createTestTask(t, token, map[string]any{"title": "Call dentist"})
	resp := ts.api.Post("/api/v1/tasks/"+done.ID+"/complete", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/tasks", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[ListTasksResponse](t, resp.Body.Bytes())
	assert.Len(t, body.Tasks, 3)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 10, body.Pagination.Limit)
	assert.Equal(t, 3, body.Pagination.Total)
	assert.Equal(t, 1, body.Pagination.TotalPages)

	resp = ts.api.Get("/api/v1/tasks?completed=false&priority=high", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	body = decode[ListTasksResponse](t, resp.Body.Bytes())
	require.Len(t, body.Tasks, 1)
	assert.Equal(t, "Write report", body.Tasks[0].Title)

	resp = ts.api.Get("/api/v1/tasks?search=report", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	body = decode[ListTasksResponse](t, resp.Body.Bytes())
	require.Len(t, body.Tasks, 1)
	assert.Equal(t, "Write report", body.Tasks[0].Title)
}

func TestListTasksScopedToUser(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := ts.registerTestUser(t, "alice@example.com")
	bobToken := ts.registerTestUser(t, "bob@example.com")

	ts.createTestTask(t, aliceToken, map[string]any{"title": "Alice's task"})

	resp := ts.api.Get("/api/v1/tasks", "Authorization: "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[ListTasksResponse](t, resp.Body.Bytes())
	assert.Empty(t, body.Tasks)
	assert.Equal(t, 0, body.Pagination.Total)
}

func TestListTasksPagination(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	for i := 0; i < 5; i++ {
		ts.createTestTask(t, token, map[string]any{"title": fmt.Sprintf("Task %d", i)})
	}

	resp := ts.api.Get("/api/v1/tasks?limit=2&page=2&orderBy=title&orderDirection=asc", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[ListTasksResponse](t, resp.Body.Bytes())
	require.Len(t, body.Tasks, 2)
	assert.Equal(t, "Task 2", body.Tasks[0].Title)
	assert.Equal(t, "Task 3", body.Tasks[1].Title)
	assert.Equal(t, 5, body.Pagination.Total)
	assert.Equal(t, 3, body.Pagination.TotalPages)

	// Pages past the end are empty but keep the totals.
	resp = ts.api.Get("/api/v1/tasks?limit=2&page=9", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	body = decode[ListTasksResponse](t, resp.Body.Bytes())
	assert.Empty(t, body.Tasks)
	assert.Equal(t, 5, body.Pagination.Total)
}

func TestListTasksBadParams(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerTestUser(t, "alice@example.com")

	tests := []struct {
		name  string
		query string
	}{
		{"limit too large", "limit=101"},
		{"negative page", "page=-1"},
		{"bad completed", "completed=maybe"},
		{"bad order field", "orderBy=random"},
		{"bad due date", "dueDateFrom=tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/tasks?"+tt.query, "Authorization: "+token)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		})
	}
}

func TestTasksRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/tasks")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/tasks", map[string]any{"title": "No auth"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
