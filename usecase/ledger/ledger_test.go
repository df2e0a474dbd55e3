package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/repository/memory"
)

func readMirror(t *testing.T, store repository.DocumentStore) string {
	t.Helper()
	raw, err := store.Get(context.Background(), repository.KeyUserCoins)
	if err != nil {
		t.Fatalf("get user-coins: %v", err)
	}
	return string(raw)
}

func TestDefaultsWhenNothingStored(t *testing.T) {
	uc := New(memory.NewDocumentStore(), nil)
	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats != domain.DefaultUserStats() {
		t.Errorf("stats = %+v, want defaults", stats)
	}
}

func TestLegacyCoinMirrorSeedsBalance(t *testing.T) {
	store := memory.NewDocumentStore()
	if err := store.Set(context.Background(), repository.KeyUserCoins, []byte("420")); err != nil {
		t.Fatal(err)
	}
	uc := New(store, nil)

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Coins != 420 {
		t.Errorf("Coins = %d, want 420", stats.Coins)
	}
}

func TestCreditDebitKeepMirrorInLockstep(t *testing.T) {
	store := memory.NewDocumentStore()
	uc := New(store, nil)
	ctx := context.Background()

	if _, err := uc.Credit(ctx, 10); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if got := readMirror(t, store); got != "160" {
		t.Errorf("mirror = %s, want 160", got)
	}

	stats, err := uc.Debit(ctx, 1000)
	if err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if stats.Coins != 0 {
		t.Errorf("Coins = %d, want clamp to 0", stats.Coins)
	}
	if got := readMirror(t, store); got != "0" {
		t.Errorf("mirror = %s, want 0", got)
	}

	var persisted domain.UserStats
	if _, err := repository.LoadJSON(ctx, store, repository.KeyUserStats, &persisted); err != nil {
		t.Fatal(err)
	}
	if persisted.Coins != 0 {
		t.Errorf("persisted coins = %d", persisted.Coins)
	}
}

func TestHandleCompletionChanged(t *testing.T) {
	uc := New(memory.NewDocumentStore(), nil)
	ctx := context.Background()

	if err := uc.HandleCompletionChanged(ctx, domain.TaskCompletionChanged{Delta: 10}); err != nil {
		t.Fatalf("credit event: %v", err)
	}
	if err := uc.HandleCompletionChanged(ctx, domain.TaskCompletionChanged{Delta: -10}); err != nil {
		t.Fatalf("debit event: %v", err)
	}
	stats, _ := uc.Stats(ctx)
	if stats.Coins != 150 {
		t.Errorf("Coins = %d, want 150 after +10/-10", stats.Coins)
	}

	if err := uc.HandleCompletionChanged(ctx, domain.ItemPurchased{}); err == nil {
		t.Error("expected error for foreign event")
	}
}

func TestSpend(t *testing.T) {
	store := memory.NewDocumentStore()
	uc := New(store, nil)
	ctx := context.Background()

	stats, err := uc.Spend(ctx, "ocean-theme", 100)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if stats.Coins != 50 {
		t.Errorf("Coins = %d, want 50", stats.Coins)
	}

	if _, err := uc.Spend(ctx, "ocean-theme", 0); !errors.Is(err, domain.ErrItemOwned) {
		t.Errorf("repeat purchase err = %v, want ErrItemOwned", err)
	}
	if _, err := uc.Spend(ctx, "forest-theme", 100); !errors.Is(err, domain.ErrInsufficientCoins) {
		t.Errorf("unaffordable err = %v, want ErrInsufficientCoins", err)
	}

	raw, err := store.Get(ctx, repository.KeyOwnedItems)
	if err != nil {
		t.Fatal(err)
	}
	var owned []string
	if err := json.Unmarshal(raw, &owned); err != nil {
		t.Fatal(err)
	}
	if len(owned) != 1 || owned[0] != "ocean-theme" {
		t.Errorf("owned-items = %v", owned)
	}
	if got := readMirror(t, store); got != "50" {
		t.Errorf("mirror = %s, want 50", got)
	}
}

func TestOwnedItemsDeduplicatedOnLoad(t *testing.T) {
	store := memory.NewDocumentStore()
	if err := store.Set(context.Background(), repository.KeyOwnedItems, []byte(`["a","b","a"]`)); err != nil {
		t.Fatal(err)
	}
	uc := New(store, nil)
	owned, err := uc.OwnedItems(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(owned) != 2 {
		t.Errorf("owned = %v, want [a b]", owned)
	}
}
