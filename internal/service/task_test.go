package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-server/internal/domain"
	domainerrors "github.com/taskboard/taskboard-server/internal/errors"
)

func TestTaskService_Create_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	task, err := env.tasks.Create(ctx, userID, CreateTaskRequest{Title: "Write report"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.False(t, task.Completed)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.Empty(t, task.CategoryID)
	assert.Empty(t, task.Tags)
}

func TestTaskService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	_, err := env.tasks.Create(ctx, userID, CreateTaskRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.tasks.Create(ctx, userID, CreateTaskRequest{Title: "ok", Priority: "urgent"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// Whitespace-only titles survive struct validation but fail in the domain.
	_, err = env.tasks.Create(ctx, userID, CreateTaskRequest{Title: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTaskService_Create_WithCategoryAndTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	category, err := env.categories.Create(ctx, userID, CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)
	tag, err := env.tags.Create(ctx, userID, CreateTagRequest{Name: "urgent"})
	require.NoError(t, err)

	task, err := env.tasks.Create(ctx, userID, CreateTaskRequest{
		Title:      "Write report",
		CategoryID: category.ID,
		TagIDs:     []string{tag.ID, tag.ID}, // duplicates collapse
	})
	require.NoError(t, err)
	assert.Equal(t, category.ID, task.CategoryID)
	require.Len(t, task.Tags, 1)
	assert.Equal(t, tag.ID, task.Tags[0].ID)
}

func TestTaskService_Create_MissingCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	_, err := env.tasks.Create(ctx, userID, CreateTaskRequest{
		Title:      "Task",
		CategoryID: "cat-missing",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaskService_Create_ForeignCategoryForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	category, err := env.categories.Create(ctx, bob, CreateCategoryRequest{Name: "Bob's"})
	require.NoError(t, err)

	_, err = env.tasks.Create(ctx, alice, CreateTaskRequest{
		Title:      "Task",
		CategoryID: category.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestTaskService_Create_ForeignTagForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	tag, err := env.tags.Create(ctx, bob, CreateTagRequest{Name: "bobs-tag"})
	require.NoError(t, err)

	_, err = env.tasks.Create(ctx, alice, CreateTaskRequest{
		Title:  "Task",
		TagIDs: []string{tag.ID},
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.tasks.Create(ctx, alice, CreateTaskRequest{
		Title:  "Task",
		TagIDs: []string{"tag-missing"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaskService_Get_OwnershipAndExistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	task, err := env.tasks.Create(ctx, alice, CreateTaskRequest{Title: "Private"})
	require.NoError(t, err)

	got, err := env.tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Existing task owned by someone else: forbidden, not hidden.
	_, err = env.tasks.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.tasks.Get(ctx, alice, "task-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaskService_Update_PartialFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task, err := env.tasks.Create(ctx, userID, CreateTaskRequest{
		Title:       "Original",
		Description: "original description",
		Priority:    "low",
		DueDate:     &due,
	})
	require.NoError(t, err)

	newTitle := "Renamed"
	newPriority := "high"
	updated, err := env.tasks.Update(ctx, userID, task.ID, UpdateTaskRequest{
		Title:    &newTitle,
		Priority: &newPriority,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	// Untouched fields survive.
	assert.Equal(t, "original description", updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
}

func TestTaskService_Update_ClearDueDateAndCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	category, err := env.categories.Create(ctx, userID, CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task, err := env.tasks.Create(ctx, userID, CreateTaskRequest{
		Title:      "Task",
		DueDate:    &due,
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	noCategory := ""
	updated, err := env.tasks.Update(ctx, userID, task.ID, UpdateTaskRequest{
		ClearDueDate: true,
		CategoryID:   &noCategory,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Empty(t, updated.CategoryID)
}

func TestTaskService_Update_ReplacesTagsWholesale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	tagA, err := env.tags.Create(ctx, userID, CreateTagRequest{Name: "a"})
	require.NoError(t, err)
	tagB, err := env.tags.Create(ctx, userID, CreateTagRequest{Name: "b"})
	require.NoError(t, err)

	task, err := env.tasks.Create(ctx, userID, CreateTaskRequest{
		Title:  "Task",
		TagIDs: []string{tagA.ID},
	})
	require.NoError(t, err)

	// nil TagIDs leaves the set alone.
	updated, err := env.tasks.Update(ctx, userID, task.ID, UpdateTaskRequest{})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)

	newTags := []string{tagB.ID}
	updated, err = env.tasks.Update(ctx, userID, task.ID, UpdateTaskRequest{TagIDs: &newTags})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, tagB.ID, updated.Tags[0].ID)

	// An empty (non-nil) list clears every tag.
	empty := []string{}
	updated, err = env.tasks.Update(ctx, userID, task.ID, UpdateTaskRequest{TagIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestTaskService_Update_EmptyTitleRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	task, err := env.tasks.Create(ctx, userID, CreateTaskRequest{Title: "Task"})
	require.NoError(t, err)

	blank := "   "
	_, err = env.tasks.Update(ctx, userID, task.ID, UpdateTaskRequest{Title: &blank})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// The stored task is untouched after the failed update.
	got, err := env.tasks.Get(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Task", got.Title)
}

func TestTaskService_Update_ForbiddenForOtherUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	task, err := env.tasks.Create(ctx, alice, CreateTaskRequest{Title: "Private"})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = env.tasks.Update(ctx, bob, task.ID, UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestTaskService_Complete_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	task, err := env.tasks.Create(ctx, userID, CreateTaskRequest{Title: "Task"})
	require.NoError(t, err)

	done, err := env.tasks.Complete(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	// Completing again succeeds and stays completed.
	again, err := env.tasks.Complete(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)
}

func TestTaskService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	task, err := env.tasks.Create(ctx, alice, CreateTaskRequest{Title: "Task"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.tasks.Delete(ctx, bob, task.ID), domainerrors.ErrForbidden)
	require.NoError(t, env.tasks.Delete(ctx, alice, task.ID))
	assert.ErrorIs(t, env.tasks.Delete(ctx, alice, task.ID), domainerrors.ErrNotFound)
}

func TestTaskService_List_DefaultsAndFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := env.tasks.Create(ctx, userID, CreateTaskRequest{Title: title})
		require.NoError(t, err)
	}
	done, err := env.tasks.Create(ctx, userID, CreateTaskRequest{Title: "Done already"})
	require.NoError(t, err)
	_, err = env.tasks.Complete(ctx, userID, done.ID)
	require.NoError(t, err)

	page, err := env.tasks.List(ctx, userID, ListTasksRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)

	completed := true
	page, err = env.tasks.List(ctx, userID, ListTasksRequest{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = env.tasks.List(ctx, userID, ListTasksRequest{Search: "alpha"})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Alpha", page.Tasks[0].Title)
}

func TestTaskService_List_ValidatesPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice@example.com")

	_, err := env.tasks.List(ctx, userID, ListTasksRequest{Limit: 101})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.tasks.List(ctx, userID, ListTasksRequest{Page: -1})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.tasks.List(ctx, userID, ListTasksRequest{OrderBy: "color"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.tasks.List(ctx, userID, ListTasksRequest{Limit: 100})
	assert.NoError(t, err)
}
