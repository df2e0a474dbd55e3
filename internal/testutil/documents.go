// Package testutil holds shared checks for DocumentStore implementations.
package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// AssertDocumentStore runs the behaviour every DocumentStore must share: missing keys report
// ErrDocumentNotFound, Set overwrites whole documents, Delete is idempotent and keys do not
// bleed into each other.
func AssertDocumentStore(t *testing.T, store repository.DocumentStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		if _, err := store.Get(ctx, "never-written"); !errors.Is(err, domain.ErrDocumentNotFound) {
			t.Fatalf("Get missing = %v, want ErrDocumentNotFound", err)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		if err := store.Set(ctx, repository.KeyTasks, []byte(`[{"id":1}]`)); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := store.Set(ctx, repository.KeyTasks, []byte(`[]`)); err != nil {
			t.Fatalf("Set: %v", err)
		}
		AssertDocument(t, store, repository.KeyTasks, `[]`)
	})

	t.Run("keys are independent", func(t *testing.T) {
		if err := store.Set(ctx, repository.KeyUserCoins, []byte(`150`)); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := store.Set(ctx, repository.KeyOwnedItems, []byte(`["ocean-theme"]`)); err != nil {
			t.Fatalf("Set: %v", err)
		}
		AssertDocument(t, store, repository.KeyUserCoins, `150`)
		AssertDocument(t, store, repository.KeyOwnedItems, `["ocean-theme"]`)
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, repository.KeyUserCoins); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := store.Delete(ctx, repository.KeyUserCoins); err != nil {
			t.Fatalf("second Delete: %v", err)
		}
		if _, err := store.Get(ctx, repository.KeyUserCoins); !errors.Is(err, domain.ErrDocumentNotFound) {
			t.Fatalf("Get after delete = %v", err)
		}
		AssertDocument(t, store, repository.KeyOwnedItems, `["ocean-theme"]`)
	})

	if pinger, ok := store.(repository.Pinger); ok {
		t.Run("ping", func(t *testing.T) {
			if err := pinger.Ping(ctx); err != nil {
				t.Fatalf("Ping: %v", err)
			}
		})
	}
}

// AssertDocument fails unless key holds exactly want.
func AssertDocument(t *testing.T, store repository.DocumentStore, key, want string) {
	t.Helper()
	got, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("document %s mismatch (-want +got):\n%s", key, diff)
	}
}
