package domain

import (
	"strings"
	"time"
)

// Priority ranks a task for filtering, sorting and calendar indicators.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities high before low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// DefaultCategory is preselected by the task form.
const DefaultCategory = "Personal"

// Categories offered by the task form; Category itself stays free-form.
var Categories = []string{"Personal", "Work", "Health", "Shopping", "Learning"}

// Task represents a user-owned to-do item.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	DueDate     *Date     `json:"dueDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskFields carries the editable attributes of a task. Completion is not one of them; it
// only changes through a toggle so the ledger sees every transition.
type TaskFields struct {
	Title       string
	Description string
	Priority    Priority
	Category    string
	DueDate     *Date
}

// Normalize trims text fields and fills form defaults; it reports ErrInvalidTitle or
// ErrInvalidPriority when the fields cannot be persisted.
func (f *TaskFields) Normalize(defaultPriority Priority) error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	if f.Title == "" {
		return ErrInvalidTitle
	}
	if f.Priority == "" {
		f.Priority = defaultPriority
	}
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	if !f.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if f.Category == "" {
		f.Category = DefaultCategory
	}
	return nil
}

// Apply overwrites every editable attribute; ID, Completed and CreatedAt are untouched.
func (t *Task) Apply(f TaskFields) {
	t.Title = f.Title
	t.Description = f.Description
	t.Priority = f.Priority
	t.Category = f.Category
	t.DueDate = f.DueDate
}

// IsOverdue reports an incomplete task whose due date lies before today.
func (t *Task) IsOverdue(today Date) bool {
	return t != nil && !t.Completed && t.DueDate != nil && t.DueDate.Before(today)
}

// DueOn reports whether the task is due on d.
func (t *Task) DueOn(d Date) bool {
	return t != nil && t.DueDate != nil && *t.DueDate == d
}
