package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/usecase"
)

// Ledger is the part of the reward ledger the store needs.
type Ledger interface {
	Stats(ctx context.Context) (domain.UserStats, error)
	OwnedItems(ctx context.Context) (domain.OwnedItems, error)
	Spend(ctx context.Context, itemID string, price int) (domain.UserStats, error)
}

// Offer is a catalog item as seen by the current user.
type Offer struct {
	domain.StoreItem
	EffectivePrice int  `json:"effectivePrice"`
	Owned          bool `json:"owned"`
	Affordable     bool `json:"affordable"`
}

type Section struct {
	Category domain.ItemCategory `json:"category"`
	Items    []Offer             `json:"items"`
}

type Listing struct {
	Coins      int       `json:"coins"`
	OwnedCount int       `json:"ownedCount"`
	Sections   []Section `json:"sections"`
}

type Receipt struct {
	ItemID  string `json:"itemId"`
	Price   int    `json:"price"`
	Balance int    `json:"balance"`
}

type UseCase struct {
	ledger Ledger
	events usecase.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func New(ledger Ledger, events usecase.EventPublisher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		ledger: ledger,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Listing groups the catalog by category and marks what is owned and affordable.
func (uc *UseCase) Listing(ctx context.Context) (*Listing, error) {
	stats, err := uc.ledger.Stats(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := uc.ledger.OwnedItems(ctx)
	if err != nil {
		return nil, err
	}

	listing := &Listing{Coins: stats.Coins, OwnedCount: len(owned)}
	for _, category := range domain.ItemCategories {
		section := Section{Category: category}
		for _, item := range catalog {
			if item.Category != category {
				continue
			}
			price := item.EffectivePrice()
			section.Items = append(section.Items, Offer{
				StoreItem:      item,
				EffectivePrice: price,
				Owned:          owned.Contains(item.ID),
				Affordable:     stats.Coins >= price,
			})
		}
		listing.Sections = append(listing.Sections, section)
	}
	return listing, nil
}

// Purchase debits the effective price and records ownership. Unknown, owned and unaffordable
// items are rejected with the ledger left unchanged.
func (uc *UseCase) Purchase(ctx context.Context, itemID string) (*Receipt, error) {
	item, ok := Lookup(itemID)
	if !ok {
		uc.logger.Debug("purchase rejected", zap.String("item_id", itemID), zap.Error(domain.ErrItemNotFound))
		return nil, domain.ErrItemNotFound
	}

	price := item.EffectivePrice()
	stats, err := uc.ledger.Spend(ctx, item.ID, price)
	if err != nil {
		uc.logger.Debug("purchase rejected", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("item purchased",
		zap.String("item_id", item.ID),
		zap.Int("price", price),
		zap.Int("balance", stats.Coins))

	if uc.events != nil {
		event := domain.ItemPurchased{
			ItemID:     item.ID,
			Price:      price,
			Balance:    stats.Coins,
			OccurredAt: uc.now(),
		}
		if err := uc.events.Publish(ctx, event); err != nil {
			uc.logger.Warn("purchase notification failed", zap.String("item_id", item.ID), zap.Error(err))
		}
	}

	return &Receipt{ItemID: item.ID, Price: price, Balance: stats.Coins}, nil
}
