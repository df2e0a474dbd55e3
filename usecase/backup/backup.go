package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/usecase"
)

// SettingsSource returns the effective settings, defaults included.
type SettingsSource interface {
	Get(ctx context.Context) (domain.Settings, error)
}

// Bundle is the downloadable backup document.
type Bundle struct {
	Tasks      json.RawMessage `json:"tasks"`
	Settings   domain.Settings `json:"settings"`
	UserStats  json.RawMessage `json:"userStats"`
	OwnedItems json.RawMessage `json:"ownedItems"`
}

type UseCase struct {
	store     repository.DocumentStore
	settings  SettingsSource
	resetters []usecase.Resetter
	logger    *zap.Logger
	now       func() time.Time
}

// New wires the export/clear operations. Resetters are told to drop their caches after Clear.
func New(store repository.DocumentStore, settings SettingsSource, logger *zap.Logger, resetters ...usecase.Resetter) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:     store,
		settings:  settings,
		resetters: resetters,
		logger:    logger,
		now:       time.Now,
	}
}

// FileName is the suggested download name, e.g. taskflow-backup-2024-01-15.json.
func FileName(now time.Time) string {
	return fmt.Sprintf("taskflow-backup-%s.json", domain.DateOf(now))
}

// Export collects the stored documents; missing ones become empty arrays or objects.
func (uc *UseCase) Export(ctx context.Context) (*Bundle, error) {
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.raw(ctx, repository.KeyTasks, "[]")
	if err != nil {
		return nil, err
	}
	stats, err := uc.raw(ctx, repository.KeyUserStats, "{}")
	if err != nil {
		return nil, err
	}
	owned, err := uc.raw(ctx, repository.KeyOwnedItems, "[]")
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Tasks:      tasks,
		Settings:   settings,
		UserStats:  stats,
		OwnedItems: owned,
	}, nil
}

// Encode renders the export as indented JSON together with its file name.
func (uc *UseCase) Encode(ctx context.Context) ([]byte, string, error) {
	bundle, err := uc.Export(ctx)
	if err != nil {
		return nil, "", err
	}
	body, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return body, FileName(uc.now()), nil
}

// Clear deletes every application document and resets cached state.
func (uc *UseCase) Clear(ctx context.Context) error {
	var errs error
	for _, key := range repository.AllKeys {
		if err := uc.store.Delete(ctx, key); err != nil {
			errs = errors.Join(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	for _, r := range uc.resetters {
		r.Reset(ctx)
	}
	if errs != nil {
		uc.logger.Error("clear data incomplete", zap.Error(errs))
		return errs
	}
	uc.logger.Warn("all data cleared")
	return nil
}

func (uc *UseCase) raw(ctx context.Context, key, fallback string) (json.RawMessage, error) {
	doc, err := uc.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return json.RawMessage(fallback), nil
		}
		return nil, fmt.Errorf("export %s: %w", key, err)
	}
	if !json.Valid(doc) {
		return nil, domain.NewError(domain.ErrCodeInternal, fmt.Sprintf("malformed %s document", key))
	}
	return json.RawMessage(doc), nil
}
