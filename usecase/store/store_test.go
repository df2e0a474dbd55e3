package store

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository/memory"
	"github.com/fastygo/taskflow/usecase"
	ledgerUC "github.com/fastygo/taskflow/usecase/ledger"
)

func newStore(t *testing.T) (*UseCase, *ledgerUC.UseCase, *usecase.Dispatcher) {
	t.Helper()
	ledger := ledgerUC.New(memory.NewDocumentStore(), nil)
	events := usecase.NewDispatcher()
	return New(ledger, events, nil), ledger, events
}

func TestCatalogPrices(t *testing.T) {
	want := map[string]int{
		"sunset-theme":        80,
		"theme-bundle":        338,
		"productivity-bundle": 245,
		"task-boost":          50,
	}
	for id, price := range want {
		item, ok := Lookup(id)
		if !ok {
			t.Fatalf("Lookup(%q) missing", id)
		}
		if got := item.EffectivePrice(); got != price {
			t.Errorf("%s effective price = %d, want %d", id, got, price)
		}
	}
	if len(Catalog()) != 11 {
		t.Errorf("catalog size = %d, want 11", len(Catalog()))
	}
}

func TestPurchase(t *testing.T) {
	uc, ledger, events := newStore(t)
	ctx := context.Background()

	var notified []domain.ItemPurchased
	events.Subscribe(domain.EventItemPurchased, func(_ context.Context, e domain.Event) error {
		notified = append(notified, e.(domain.ItemPurchased))
		return nil
	})

	receipt, err := uc.Purchase(ctx, "sunset-theme")
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if receipt.Price != 80 || receipt.Balance != 70 {
		t.Errorf("receipt = %+v", receipt)
	}
	if len(notified) != 1 || notified[0].ItemID != "sunset-theme" {
		t.Errorf("notifications = %+v", notified)
	}

	if _, err := uc.Purchase(ctx, "sunset-theme"); !errors.Is(err, domain.ErrItemOwned) {
		t.Errorf("second purchase err = %v, want ErrItemOwned", err)
	}
	stats, _ := ledger.Stats(ctx)
	if stats.Coins != 70 {
		t.Errorf("Coins after rejected repeat = %d, want 70", stats.Coins)
	}
}

func TestPurchaseRejections(t *testing.T) {
	uc, ledger, _ := newStore(t)
	ctx := context.Background()

	if _, err := uc.Purchase(ctx, "no-such-item"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("unknown item err = %v", err)
	}
	if _, err := uc.Purchase(ctx, "productivity-bundle"); !errors.Is(err, domain.ErrInsufficientCoins) {
		t.Errorf("unaffordable err = %v", err)
	}
	stats, _ := ledger.Stats(ctx)
	owned, _ := ledger.OwnedItems(ctx)
	if stats.Coins != 150 || len(owned) != 0 {
		t.Errorf("ledger changed by rejected purchases: coins=%d owned=%v", stats.Coins, owned)
	}
}

func TestPurchaseNotificationFailureIsNotFatal(t *testing.T) {
	uc, _, events := newStore(t)
	events.Subscribe(domain.EventItemPurchased, func(context.Context, domain.Event) error {
		return errors.New("mailer down")
	})

	if _, err := uc.Purchase(context.Background(), "task-boost"); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
}

func TestListing(t *testing.T) {
	uc, _, _ := newStore(t)
	ctx := context.Background()
	if _, err := uc.Purchase(ctx, "task-boost"); err != nil {
		t.Fatal(err)
	}

	listing, err := uc.Listing(ctx)
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	if listing.Coins != 100 || listing.OwnedCount != 1 {
		t.Errorf("coins=%d owned=%d", listing.Coins, listing.OwnedCount)
	}
	if len(listing.Sections) != len(domain.ItemCategories) {
		t.Fatalf("sections = %d", len(listing.Sections))
	}

	offers := map[string]Offer{}
	for _, s := range listing.Sections {
		for _, o := range s.Items {
			if o.Category != s.Category {
				t.Errorf("%s listed under %s", o.ID, s.Category)
			}
			offers[o.ID] = o
		}
	}
	if !offers["task-boost"].Owned {
		t.Error("task-boost should be owned")
	}
	if !offers["ocean-theme"].Affordable || offers["advanced-calendar"].Affordable {
		t.Error("affordability not computed from balance 100")
	}
}
