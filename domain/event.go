package domain

import "time"

// Event names published through the use case dispatcher.
const (
	EventTaskCompletionChanged = "task.completion_changed"
	EventItemPurchased         = "store.item_purchased"
)

// Event represents a change that other aggregates react to.
type Event interface {
	EventName() string
}

// TaskCompletionChanged is emitted when a task flips its completion flag. Delta is the coin
// adjustment the ledger applies (positive on completion, negative on un-completion).
type TaskCompletionChanged struct {
	TaskID     int       `json:"taskId"`
	Completed  bool      `json:"completed"`
	Delta      int       `json:"delta"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (TaskCompletionChanged) EventName() string { return EventTaskCompletionChanged }

// ItemPurchased is emitted after a successful store purchase.
type ItemPurchased struct {
	ItemID     string    `json:"itemId"`
	Price      int       `json:"price"`
	Balance    int       `json:"balance"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (ItemPurchased) EventName() string { return EventItemPurchased }
