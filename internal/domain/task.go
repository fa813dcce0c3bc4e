package domain

import (
	"strings"
	"time"

	"github.com/taskboard/taskboard-server/internal/errors"
)

// Priority represents the urgency of a task.
type Priority string

// Valid task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned when a task is created without an explicit priority.
const DefaultPriority = PriorityMedium

// ParsePriority validates a priority string.
// An empty string resolves to DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	case "":
		return DefaultPriority, nil
	default:
		return "", errors.Validationf("priority must be one of low, medium, high (got %q)", s)
	}
}

// IsValid reports whether p is one of the three known priorities.
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task represents a single to-do item owned by a user.
// A task optionally belongs to one category and carries a set of tags,
// deduplicated by tag ID. Ownership (UserID) is fixed at creation.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	UserID      string     `json:"userId"`
	CategoryID  string     `json:"categoryId,omitempty"` // Empty when uncategorized
	Tags        []*Tag     `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a task with validated invariants: a non-empty title
// (after trimming) and an owning user. New tasks always start incomplete.
func NewTask(id, title, description, userID string, priority Priority, dueDate *time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.Validation("task title cannot be empty")
	}
	if userID == "" {
		return nil, errors.Validation("task must be associated with a user")
	}
	if priority == "" {
		priority = DefaultPriority
	}
	if !priority.IsValid() {
		return nil, errors.Validationf("invalid priority %q", priority)
	}

	now := time.Now().UTC()
	return &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   false,
		Priority:    priority,
		DueDate:     dueDate,
		UserID:      userID,
		Tags:        []*Tag{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Touch updates the UpdatedAt timestamp.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// MarkComplete marks the task as done. Completing an already-complete
// task is a no-op, not an error.
func (t *Task) MarkComplete() {
	if t.Completed {
		return
	}
	t.Completed = true
	t.Touch()
}

// MarkIncomplete reopens a completed task.
func (t *Task) MarkIncomplete() {
	if !t.Completed {
		return
	}
	t.Completed = false
	t.Touch()
}

// IsOverdue reports whether an incomplete task is past its due date.
// Completed tasks and tasks without a due date are never overdue.
func (t *Task) IsOverdue() bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(time.Now())
}

// AddTag attaches a tag to the task. Duplicate tag IDs are ignored.
func (t *Task) AddTag(tag *Tag) {
	for _, existing := range t.Tags {
		if existing.ID == tag.ID {
			return
		}
	}
	t.Tags = append(t.Tags, tag)
}

// RemoveTag detaches a tag by ID. Returns false if the tag was not present.
func (t *Task) RemoveTag(tagID string) bool {
	for i, existing := range t.Tags {
		if existing.ID == tagID {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// SetTags replaces the task's tag set wholesale, deduplicating by ID.
func (t *Task) SetTags(tags []*Tag) {
	t.Tags = []*Tag{}
	for _, tag := range tags {
		t.AddTag(tag)
	}
}

// HasTag reports whether the task carries a tag with the given ID.
func (t *Task) HasTag(tagID string) bool {
	for _, existing := range t.Tags {
		if existing.ID == tagID {
			return true
		}
	}
	return false
}
