package task

import (
	"time"

	"github.com/fastygo/taskflow/domain"
)

// DemoTasks is the starter list shown before the user has saved anything.
func DemoTasks(now time.Time) []domain.Task {
	today := domain.DateOf(now)
	tomorrow := today.AddDays(1)
	return []domain.Task{
		{
			ID:          1,
			Title:       "Complete morning workout",
			Description: "30 minutes cardio and strength training",
			Completed:   true,
			Priority:    domain.PriorityHigh,
			Category:    "Health",
			DueDate:     &today,
			CreatedAt:   now,
		},
		{
			ID:          2,
			Title:       "Review project proposal",
			Description: "Go through the Q3 marketing proposal and provide feedback",
			Priority:    domain.PriorityMedium,
			Category:    "Work",
			DueDate:     &tomorrow,
			CreatedAt:   now,
		},
		{
			ID:        3,
			Title:     "Call dentist for appointment",
			Priority:  domain.PriorityLow,
			Category:  "Personal",
			CreatedAt: now,
		},
		{
			ID:          4,
			Title:       "Grocery shopping",
			Description: "Milk, bread, eggs, vegetables",
			Completed:   true,
			Priority:    domain.PriorityMedium,
			Category:    "Shopping",
			CreatedAt:   now,
		},
	}
}
