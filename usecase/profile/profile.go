package profile

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
)

// TaskSource lists the current tasks.
type TaskSource interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

// StatsSource exposes the ledger snapshot.
type StatsSource interface {
	Stats(ctx context.Context) (domain.UserStats, error)
	OwnedItems(ctx context.Context) (domain.OwnedItems, error)
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	MaxProgress int    `json:"maxProgress"`
}

// Profile is the ledger plus the figures derived from it and from the task list.
type Profile struct {
	Stats          domain.UserStats  `json:"stats"`
	OwnedItems     domain.OwnedItems `json:"ownedItems"`
	XPProgress     float64           `json:"xpProgress"`
	CompletionRate float64           `json:"completionRate"`
	DaysActive     int               `json:"daysActive"`
	TopCategories  []CategoryCount   `json:"topCategories"`
	Achievements   []Achievement     `json:"achievements"`
}

type UseCase struct {
	tasks  TaskSource
	ledger StatsSource
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks TaskSource, ledger StatsSource, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// GetProfile recomputes the completed/total counters from the task list. Level and XP are
// reported as stored; nothing derives them from activity.
func (uc *UseCase) GetProfile(ctx context.Context) (*Profile, error) {
	tasks, err := uc.tasks.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := uc.ledger.Stats(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := uc.ledger.OwnedItems(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalTasks = len(tasks)
	stats.TasksCompleted = 0
	for _, t := range tasks {
		if t.Completed {
			stats.TasksCompleted++
		}
	}

	p := &Profile{
		Stats:         stats,
		OwnedItems:    owned,
		XPProgress:    stats.XPProgress(),
		DaysActive:    daysActive(stats.JoinDate, domain.DateOf(uc.now())),
		TopCategories: TopCategories(tasks, 3),
		Achievements:  Achievements(stats),
	}
	if stats.TotalTasks > 0 {
		p.CompletionRate = float64(stats.TasksCompleted) / float64(stats.TotalTasks) * 100
	}
	return p, nil
}

// TopCategories counts tasks per category, most used first; ties keep first-seen order.
func TopCategories(tasks []domain.Task, limit int) []CategoryCount {
	index := make(map[string]int)
	var counts []CategoryCount
	for _, t := range tasks {
		i, ok := index[t.Category]
		if !ok {
			i = len(counts)
			index[t.Category] = i
			counts = append(counts, CategoryCount{Category: t.Category})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Achievements reports milestone progress from the ledger counters.
func Achievements(stats domain.UserStats) []Achievement {
	milestones := []struct {
		id, name, description string
		progress, max         int
	}{
		{"first-task", "Getting Started", "Complete your first task", stats.TasksCompleted, 1},
		{"streak-7", "Week Warrior", "Maintain a 7-day streak", stats.Streak, 7},
		{"tasks-50", "Half Century", "Complete 50 tasks", stats.TasksCompleted, 50},
		{"level-5", "Level Up", "Reach level 5", stats.Level, 5},
		{"coins-500", "Coin Collector", "Earn 500 coins", stats.Coins, 500},
		{"streak-30", "Consistency King", "Maintain a 30-day streak", stats.Streak, 30},
	}
	out := make([]Achievement, 0, len(milestones))
	for _, m := range milestones {
		progress := m.progress
		if progress > m.max {
			progress = m.max
		}
		out = append(out, Achievement{
			ID:          m.id,
			Name:        m.name,
			Description: m.description,
			Unlocked:    m.progress >= m.max,
			Progress:    progress,
			MaxProgress: m.max,
		})
	}
	return out
}

// daysActive counts calendar days since joining, rounding a same-day join up to one.
func daysActive(join, today domain.Date) int {
	if join.IsZero() {
		return 0
	}
	days := join.DaysUntil(today)
	if days < 0 {
		days = -days
	}
	if days == 0 {
		return 1
	}
	return days
}
