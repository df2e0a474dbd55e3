// Package calendar builds the month grid and bins tasks by due date.
package calendar

import (
	"time"

	"github.com/fastygo/taskflow/domain"
)

// GridSize is six Sunday-first weeks.
const GridSize = 42

// DotLimit is the largest bucket still drawn as one dot per task.
const DotLimit = 3

// Tone names the color role of an indicator.
type Tone string

const (
	TonePrimary     Tone = "primary"
	ToneDestructive Tone = "destructive"
	ToneAccent      Tone = "accent"
	ToneMuted       Tone = "muted"
	ToneSecondary   Tone = "secondary"
)

type Badge struct {
	Count int  `json:"count"`
	Tone  Tone `json:"tone"`
}

// Indicator is either up to DotLimit dots or a count badge.
type Indicator struct {
	Dots  []Tone `json:"dots,omitempty"`
	Badge *Badge `json:"badge,omitempty"`
}

type Cell struct {
	Date           domain.Date `json:"date"`
	IsCurrentMonth bool        `json:"isCurrentMonth"`
	IsToday        bool        `json:"isToday"`
	IsSelected     bool        `json:"isSelected"`
	TaskCount      int         `json:"taskCount"`
	Indicator      Indicator   `json:"indicator"`
}

type Month struct {
	Year          int           `json:"year"`
	Month         time.Month    `json:"month"`
	Cells         []Cell        `json:"cells"`
	Selected      *domain.Date  `json:"selected,omitempty"`
	SelectedTasks []domain.Task `json:"selectedTasks,omitempty"`
}

// Options carries the clock and the transient selection.
type Options struct {
	Today    domain.Date
	Selected *domain.Date
}

// Grid returns the 42 days shown for a month: the tail of the previous month up to the first
// weekday (Sunday is column 0), every day of the month, then the head of the next month.
func Grid(year int, month time.Month) []Cell {
	first := domain.NewDate(year, month, 1)
	lead := int(first.Weekday())
	start := first.AddDays(-lead)

	cells := make([]Cell, GridSize)
	for i := range cells {
		d := start.AddDays(i)
		cells[i] = Cell{
			Date:           d,
			IsCurrentMonth: d.Year == first.Year && d.Month == first.Month,
		}
	}
	return cells
}

// Build renders a month with today/selection flags, per-day indicators and the task list of
// the selected date.
func Build(year int, month time.Month, tasks []domain.Task, opts Options) Month {
	first := domain.NewDate(year, month, 1)
	buckets := Bin(tasks)

	m := Month{Year: first.Year, Month: first.Month, Cells: Grid(first.Year, first.Month)}
	for i := range m.Cells {
		c := &m.Cells[i]
		c.IsToday = c.Date == opts.Today
		c.IsSelected = opts.Selected != nil && c.Date == *opts.Selected
		day := buckets[c.Date]
		c.TaskCount = len(day)
		c.Indicator = IndicatorFor(day)
	}
	if opts.Selected != nil {
		sel := *opts.Selected
		m.Selected = &sel
		m.SelectedTasks = TasksOn(tasks, sel)
	}
	return m
}

// Bin groups tasks by due date, preserving task order inside each bucket.
func Bin(tasks []domain.Task) map[domain.Date][]domain.Task {
	buckets := make(map[domain.Date][]domain.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		buckets[*t.DueDate] = append(buckets[*t.DueDate], t)
	}
	return buckets
}

// TasksOn returns the tasks due on d.
func TasksOn(tasks []domain.Task, d domain.Date) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.DueOn(d) {
			out = append(out, t)
		}
	}
	return out
}

// IndicatorFor colors one dot per task for small buckets and a count badge otherwise. The
// badge is destructive while any high-priority task is open, primary once all are done.
func IndicatorFor(tasks []domain.Task) Indicator {
	if len(tasks) == 0 {
		return Indicator{}
	}
	if len(tasks) <= DotLimit {
		dots := make([]Tone, 0, len(tasks))
		for _, t := range tasks {
			dots = append(dots, dotTone(t))
		}
		return Indicator{Dots: dots}
	}

	completed := 0
	openHigh := false
	for _, t := range tasks {
		if t.Completed {
			completed++
		} else if t.Priority == domain.PriorityHigh {
			openHigh = true
		}
	}
	tone := ToneSecondary
	switch {
	case openHigh:
		tone = ToneDestructive
	case completed == len(tasks):
		tone = TonePrimary
	}
	return Indicator{Badge: &Badge{Count: len(tasks), Tone: tone}}
}

func dotTone(t domain.Task) Tone {
	switch {
	case t.Completed:
		return TonePrimary
	case t.Priority == domain.PriorityHigh:
		return ToneDestructive
	case t.Priority == domain.PriorityMedium:
		return ToneAccent
	default:
		return ToneMuted
	}
}

// Shift moves a month reference by delta months.
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	d := domain.NewDate(year, month+time.Month(delta), 1)
	return d.Year, d.Month
}
