// Package filter derives the dashboard task list and its progress summary.
package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/fastygo/taskflow/domain"
)

// All disables the category or priority criterion.
const All = "all"

// Criteria is the transient dashboard query.
type Criteria struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// Match reports whether t satisfies every criterion. Search is a case-insensitive substring
// of the title or description; an empty search matches everything.
func (c Criteria) Match(t domain.Task) bool {
	if q := strings.ToLower(c.Search); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if c.Category != "" && c.Category != All && t.Category != c.Category {
		return false
	}
	if c.Priority != "" && c.Priority != All && string(t.Priority) != c.Priority {
		return false
	}
	return true
}

// Apply returns the matching tasks in their original relative order.
func Apply(tasks []domain.Task, c Criteria) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Summary is the progress card over a filtered list.
type Summary struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Progress  float64 `json:"progress"`
}

func Summarize(tasks []domain.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Progress = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}

// Percent rounds Progress for display.
func (s Summary) Percent() int {
	return int(math.Round(s.Progress))
}

// Sort returns a stably sorted copy. Unknown orders and "created" keep insertion order;
// "priority" puts high first; "dueDate" puts the earliest first and undated tasks last.
func Sort(tasks []domain.Task, order string) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	switch order {
	case domain.SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	case domain.SortDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	}
	return out
}
