package transport

import (
	"strings"

	"github.com/fastygo/taskflow/domain"
)

// TaskRequest is the body of POST /tasks and PUT /tasks/{id}. Dates use YYYY-MM-DD.
// A "completed" member is ignored; completion changes only through the toggle route.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	DueDate     string `json:"dueDate"`
}

// Fields converts the request into task fields. An unparsable due date is an invalid payload.
func (r TaskRequest) Fields() (domain.TaskFields, error) {
	fields := domain.TaskFields{
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.Priority(strings.ToLower(strings.TrimSpace(r.Priority))),
		Category:    r.Category,
	}
	if due := strings.TrimSpace(r.DueDate); due != "" {
		d, err := domain.ParseDate(due)
		if err != nil {
			return fields, domain.WrapError(domain.ErrCodeInvalid, "dueDate must be YYYY-MM-DD", err)
		}
		fields.DueDate = &d
	}
	return fields, nil
}

// TaskListMeta accompanies the filtered task list.
type TaskListMeta struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Progress  float64 `json:"progress"`
	Sort      string  `json:"sort"`
}
