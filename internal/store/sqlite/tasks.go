package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taskboard/taskboard-server/internal/domain"
	"github.com/taskboard/taskboard-server/internal/store"
)

const taskColumns = "id, user_id, category_id, title, description, completed, priority, due_date, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	var (
		t          domain.Task
		categoryID sql.NullString
		completed  int
		priority   string
		dueDate    sql.NullString
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&t.ID, &t.UserID, &categoryID, &t.Title, &t.Description,
		&completed, &priority, &dueDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	t.CategoryID = categoryID.String
	t.Completed = completed != 0
	t.Priority = domain.Priority(priority)
	t.Tags = []*domain.Tag{}

	var err error
	if t.DueDate, err = parseNullableTime(dueDate); err != nil {
		return nil, fmt.Errorf("parse due_date: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CreateTask inserts a task and its tag associations in one transaction.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, category_id, title, description, completed, priority, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, nullString(task.CategoryID), task.Title, task.Description,
		boolToInt(task.Completed), string(task.Priority), formatNullableTime(task.DueDate),
		formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	if err := insertTaskTags(ctx, tx, task); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTask returns the task with the given ID, tags included.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if err := s.loadTags(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask persists changes to a task, replacing its tag associations
// wholesale in the same transaction.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET category_id = ?, title = ?, description = ?, completed = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		nullString(task.CategoryID), task.Title, task.Description,
		boolToInt(task.Completed), string(task.Priority), formatNullableTime(task.DueDate),
		formatTime(task.UpdatedAt), task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", task.ID); err != nil {
		return fmt.Errorf("clear task tags: %w", err)
	}
	if err := insertTaskTags(ctx, tx, task); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTask removes a task. Tag associations cascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindTasks returns one page of a user's tasks matching the filter,
// with a total count taken independently of pagination.
func (s *Store) FindTasks(ctx context.Context, userID string, filter store.TaskFilter) (*store.TaskPage, error) {
	where, args := buildTaskWhere(userID, filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE " + where +
		" ORDER BY " + taskOrderClause(filter) +
		" LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, tasks); err != nil {
		return nil, err
	}
	return store.NewTaskPage(tasks, filter, total), nil
}

// buildTaskWhere translates a filter into a conjunctive WHERE clause.
func buildTaskWhere(userID string, filter store.TaskFilter) (string, []any) {
	conds := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Completed != nil {
		conds = append(conds, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.DueDateFrom != nil {
		conds = append(conds, "due_date >= ?")
		args = append(args, formatTime(*filter.DueDateFrom))
	}
	if filter.DueDateTo != nil {
		conds = append(conds, "due_date <= ?")
		args = append(args, formatTime(*filter.DueDateTo))
	}
	if filter.Search != "" {
		conds = append(conds, "(title LIKE ? ESCAPE '\\' OR description LIKE ? ESCAPE '\\')")
		pattern := "%" + escapeLike(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}

	return strings.Join(conds, " AND "), args
}

// taskOrderClause builds the ORDER BY expression for a filter. Priority
// sorts semantically (low < medium < high), and tasks without a due date
// sort after dated tasks in either direction. A secondary created_at key
// keeps ordering stable across pages.
func taskOrderClause(filter store.TaskFilter) string {
	dir := "DESC"
	if filter.OrderDirection == store.OrderAsc {
		dir = "ASC"
	}

	var key string
	switch filter.OrderBy {
	case store.OrderByTitle:
		key = "title COLLATE NOCASE " + dir
	case store.OrderByPriority:
		key = "CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END " + dir
	case store.OrderByDueDate:
		key = "(due_date IS NULL) ASC, due_date " + dir
	default:
		key = "created_at " + dir
	}
	return key + ", created_at DESC, id"
}

// escapeLike escapes LIKE metacharacters in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func insertTaskTags(ctx context.Context, tx *sql.Tx, task *domain.Task) error {
	for _, tag := range task.Tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_tags (task_id, tag_id, created_at) VALUES (?, ?, ?)`,
			task.ID, tag.ID, formatTime(task.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert task tag: %w", err)
		}
	}
	return nil
}

// loadTags populates Tags on each task with a single batched query.
func (s *Store) loadTags(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(tasks))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(tasks))
	byID := make(map[string]*domain.Task, len(tasks))
	for i, task := range tasks {
		args[i] = task.ID
		byID[task.ID] = task
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tt.task_id, t.id, t.user_id, t.name, t.created_at, t.updated_at
		FROM task_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.task_id IN (`+placeholders+`)
		ORDER BY t.name`, args...)
	if err != nil {
		return fmt.Errorf("load task tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID    string
			tag       domain.Tag
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&taskID, &tag.ID, &tag.UserID, &tag.Name, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("scan task tag: %w", err)
		}
		if tag.CreatedAt, err = parseTime(createdAt); err != nil {
			return fmt.Errorf("parse created_at: %w", err)
		}
		if tag.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return fmt.Errorf("parse updated_at: %w", err)
		}
		if task, ok := byID[taskID]; ok {
			task.Tags = append(task.Tags, &tag)
		}
	}
	return rows.Err()
}
