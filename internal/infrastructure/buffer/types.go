package buffer

import (
	"time"

	"github.com/google/uuid"
)

const (
	OperationSet    = "set"
	OperationDelete = "delete"
)

// Item is a document write that could not reach the primary store.
type Item struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Operation string    `json:"operation"`
	Data      []byte    `json:"data,omitempty"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Operation == "" {
		i.Operation = OperationSet
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
