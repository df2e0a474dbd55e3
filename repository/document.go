package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fastygo/taskflow/domain"
)

// Document keys. Each holds one top-level JSON value and is overwritten as a whole.
const (
	KeyTasks      = "tasks"
	KeyUserCoins  = "user-coins"
	KeyUserStats  = "user-stats"
	KeyOwnedItems = "owned-items"
	KeySettings   = "settings"
)

// AllKeys lists every document the application writes.
var AllKeys = []string{KeyTasks, KeyUserCoins, KeyUserStats, KeyOwnedItems, KeySettings}

// DocumentStore is the persistence port: a flat map of named JSON documents.
// Get returns domain.ErrDocumentNotFound when the key has never been written.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, doc []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LoadJSON decodes the document under key into v. It reports false without error when the
// document does not exist.
func LoadJSON(ctx context.Context, store DocumentStore, key string, v interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, domain.WrapError(domain.ErrCodeInternal, fmt.Sprintf("malformed %s document", key), err)
	}
	return true, nil
}

// SaveJSON encodes v and overwrites the document under key.
func SaveJSON(ctx context.Context, store DocumentStore, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
