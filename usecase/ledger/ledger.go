package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// UseCase is the reward ledger: coin balance, progression counters and owned store items.
// The user-stats document is the source of truth for coins; user-coins is a mirror written in
// the same step.
type UseCase struct {
	store  repository.DocumentStore
	logger *zap.Logger

	mu     sync.Mutex
	loaded bool
	stats  domain.UserStats
	owned  domain.OwnedItems
}

func New(store repository.DocumentStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		logger: logger,
	}
}

func (uc *UseCase) Stats(ctx context.Context) (domain.UserStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return domain.UserStats{}, err
	}
	return uc.stats, nil
}

func (uc *UseCase) OwnedItems(ctx context.Context) (domain.OwnedItems, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return nil, err
	}
	return append(domain.OwnedItems(nil), uc.owned...), nil
}

func (uc *UseCase) Credit(ctx context.Context, amount int) (domain.UserStats, error) {
	return uc.adjust(ctx, amount)
}

// Debit removes coins; the balance never drops below zero.
func (uc *UseCase) Debit(ctx context.Context, amount int) (domain.UserStats, error) {
	return uc.adjust(ctx, -amount)
}

// HandleCompletionChanged applies the coin delta carried by a TaskCompletionChanged event.
func (uc *UseCase) HandleCompletionChanged(ctx context.Context, event domain.Event) error {
	changed, ok := event.(domain.TaskCompletionChanged)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	_, err := uc.adjust(ctx, changed.Delta)
	return err
}

// Spend debits price and records itemID as owned in one step. It rejects an item that is
// already owned and a balance below price without touching state.
func (uc *UseCase) Spend(ctx context.Context, itemID string, price int) (domain.UserStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return domain.UserStats{}, err
	}
	if uc.owned.Contains(itemID) {
		return uc.stats, domain.ErrItemOwned
	}
	if uc.stats.Coins < price {
		return uc.stats, domain.ErrInsufficientCoins
	}

	stats := uc.stats
	stats.Debit(price)
	owned := append(domain.OwnedItems(nil), uc.owned...)
	owned.Add(itemID)

	if err := uc.persistStats(ctx, stats); err != nil {
		return uc.stats, err
	}
	if err := repository.SaveJSON(ctx, uc.store, repository.KeyOwnedItems, owned); err != nil {
		uc.logger.Error("failed to persist owned items", zap.Error(err))
		return uc.stats, err
	}
	uc.stats = stats
	uc.owned = owned
	return stats, nil
}

func (uc *UseCase) Reset(context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.loaded = false
	uc.stats = domain.UserStats{}
	uc.owned = nil
}

func (uc *UseCase) adjust(ctx context.Context, delta int) (domain.UserStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return domain.UserStats{}, err
	}

	stats := uc.stats
	if delta >= 0 {
		stats.Credit(delta)
	} else {
		stats.Debit(-delta)
	}
	if err := uc.persistStats(ctx, stats); err != nil {
		return uc.stats, err
	}
	uc.logger.Debug("coin balance adjusted", zap.Int("delta", delta), zap.Int("coins", stats.Coins))
	uc.stats = stats
	return stats, nil
}

func (uc *UseCase) load(ctx context.Context) error {
	if uc.loaded {
		return nil
	}

	stats := domain.DefaultUserStats()
	found, err := repository.LoadJSON(ctx, uc.store, repository.KeyUserStats, &stats)
	if err != nil {
		return err
	}
	if !found {
		coins, ok, err := uc.loadCoinMirror(ctx)
		if err != nil {
			return err
		}
		if ok {
			stats.Coins = coins
		}
	}

	var owned domain.OwnedItems
	if _, err := repository.LoadJSON(ctx, uc.store, repository.KeyOwnedItems, &owned); err != nil {
		return err
	}

	uc.stats = stats
	uc.owned = dedupe(owned)
	uc.loaded = true
	return nil
}

func (uc *UseCase) loadCoinMirror(ctx context.Context) (int, bool, error) {
	raw, err := uc.store.Get(ctx, repository.KeyUserCoins)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("load %s: %w", repository.KeyUserCoins, err)
	}
	coins, err := strconv.Atoi(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	if err != nil {
		return 0, false, domain.WrapError(domain.ErrCodeInternal, "malformed user-coins document", err)
	}
	if coins < 0 {
		coins = 0
	}
	return coins, true, nil
}

func (uc *UseCase) persistStats(ctx context.Context, stats domain.UserStats) error {
	if err := repository.SaveJSON(ctx, uc.store, repository.KeyUserStats, stats); err != nil {
		uc.logger.Error("failed to persist user stats", zap.Error(err))
		return err
	}
	if err := uc.store.Set(ctx, repository.KeyUserCoins, []byte(strconv.Itoa(stats.Coins))); err != nil {
		uc.logger.Error("failed to persist coin mirror", zap.Error(err))
		return fmt.Errorf("save %s: %w", repository.KeyUserCoins, err)
	}
	return nil
}

func dedupe(items domain.OwnedItems) domain.OwnedItems {
	out := make(domain.OwnedItems, 0, len(items))
	for _, id := range items {
		out.Add(id)
	}
	return out
}
