package store

import "github.com/fastygo/taskflow/domain"

var catalog = []domain.StoreItem{
	{ID: "task-boost", Name: "Task Boost", Description: "Double XP for the next 10 completed tasks", Price: 50, Category: domain.CategoryPowerups, Popular: true},
	{ID: "streak-freeze", Name: "Streak Freeze", Description: "Protect your streak for 3 days if you miss a day", Price: 75, Category: domain.CategoryPowerups},
	{ID: "priority-boost", Name: "Priority Boost", Description: "Highlight high-priority tasks with special effects", Price: 30, Category: domain.CategoryPowerups},

	{ID: "ocean-theme", Name: "Ocean Breeze", Description: "Calming blue and teal color scheme", Price: 100, Category: domain.CategoryThemes},
	{ID: "sunset-theme", Name: "Sunset Glow", Description: "Warm orange and pink gradient theme", Price: 100, Category: domain.CategoryThemes, Discount: 20},
	{ID: "forest-theme", Name: "Forest Green", Description: "Natural green and brown earth tones", Price: 100, Category: domain.CategoryThemes},

	{ID: "unlimited-tasks", Name: "Unlimited Tasks", Description: "Remove the 50 task limit and create as many as you need", Price: 200, Category: domain.CategoryFeatures, Popular: true},
	{ID: "advanced-calendar", Name: "Advanced Calendar", Description: "Week view, recurring tasks, and calendar integrations", Price: 150, Category: domain.CategoryFeatures},
	{ID: "task-templates", Name: "Task Templates", Description: "Pre-made task templates for common workflows", Price: 80, Category: domain.CategoryFeatures},

	{ID: "productivity-bundle", Name: "Productivity Pro", Description: "Unlimited tasks + Advanced calendar + 3 themes", Price: 350, Category: domain.CategoryBundles, Discount: 30, Popular: true},
	{ID: "theme-bundle", Name: "Theme Collection", Description: "All 6 premium themes at a special price", Price: 450, Category: domain.CategoryBundles, Discount: 25},
}

// Catalog returns a copy of the built-in item list in display order.
func Catalog() []domain.StoreItem {
	return append([]domain.StoreItem(nil), catalog...)
}

// Lookup finds a catalog item by id.
func Lookup(id string) (domain.StoreItem, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return domain.StoreItem{}, false
}
