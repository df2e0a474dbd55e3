package domain

import "time"

// UserStats is the persisted reward ledger snapshot.
type UserStats struct {
	Coins                 int     `json:"coins"`
	TasksCompleted        int     `json:"tasksCompleted"`
	TotalTasks            int     `json:"totalTasks"`
	Streak                int     `json:"streak"`
	Level                 int     `json:"level"`
	XP                    int     `json:"xp"`
	XPToNext              int     `json:"xpToNext"`
	JoinDate              Date    `json:"joinDate"`
	AverageCompletionTime float64 `json:"averageCompletionTime"`
}

// DefaultUserStats is the ledger a fresh profile starts with.
func DefaultUserStats() UserStats {
	return UserStats{
		Coins:                 150,
		TasksCompleted:        47,
		TotalTasks:            52,
		Streak:                7,
		Level:                 3,
		XP:                    280,
		XPToNext:              320,
		JoinDate:              NewDate(2024, time.January, 15),
		AverageCompletionTime: 2.5,
	}
}

// Credit adds amount coins; non-positive amounts are ignored.
func (s *UserStats) Credit(amount int) {
	if amount > 0 {
		s.Coins += amount
	}
}

// Debit removes amount coins, clamping the balance at zero.
func (s *UserStats) Debit(amount int) {
	if amount <= 0 {
		return
	}
	s.Coins -= amount
	if s.Coins < 0 {
		s.Coins = 0
	}
}

// XPProgress is xp/xpToNext as a percentage.
func (s UserStats) XPProgress() float64 {
	if s.XPToNext <= 0 {
		return 0
	}
	return float64(s.XP) / float64(s.XPToNext) * 100
}

// OwnedItems is the purchase-ordered set of owned store item ids.
type OwnedItems []string

func (o OwnedItems) Contains(id string) bool {
	for _, owned := range o {
		if owned == id {
			return true
		}
	}
	return false
}

// Add appends id unless it is already present and reports whether it was added.
func (o *OwnedItems) Add(id string) bool {
	if o.Contains(id) {
		return false
	}
	*o = append(*o, id)
	return true
}
