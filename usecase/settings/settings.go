package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// UseCase reads and merges the settings document.
type UseCase struct {
	store  repository.DocumentStore
	logger *zap.Logger

	mu       sync.Mutex
	loaded   bool
	settings domain.Settings
}

func New(store repository.DocumentStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{store: store, logger: logger}
}

func (uc *UseCase) Get(ctx context.Context) (domain.Settings, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return domain.Settings{}, err
	}
	return uc.settings, nil
}

// Patch deep-merges a partial settings document. Fields absent from the patch keep their
// current values; unknown sections or fields are rejected.
func (uc *UseCase) Patch(ctx context.Context, patch []byte) (domain.Settings, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return domain.Settings{}, err
	}

	next := uc.settings
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		return uc.settings, domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidSetting.Message, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return uc.settings, domain.NewError(domain.ErrCodeInvalid, "settings patch must be a single JSON object")
	}
	if err := next.Validate(); err != nil {
		return uc.settings, err
	}
	if err := repository.SaveJSON(ctx, uc.store, repository.KeySettings, next); err != nil {
		uc.logger.Error("failed to persist settings", zap.Error(err))
		return uc.settings, err
	}
	uc.settings = next
	uc.logger.Info("settings updated")
	return next, nil
}

// Set updates a single field, e.g. Set(ctx, "appearance", "theme", "dark").
func (uc *UseCase) Set(ctx context.Context, section, key string, value interface{}) (domain.Settings, error) {
	patch, err := json.Marshal(map[string]map[string]interface{}{
		section: {key: value},
	})
	if err != nil {
		return domain.Settings{}, domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidSetting.Message, err)
	}
	settings, err := uc.Patch(ctx, patch)
	if err != nil {
		return settings, fmt.Errorf("set %s.%s: %w", section, key, err)
	}
	return settings, nil
}

func (uc *UseCase) Reset(context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.loaded = false
	uc.settings = domain.Settings{}
}

func (uc *UseCase) load(ctx context.Context) error {
	if uc.loaded {
		return nil
	}
	settings := domain.DefaultSettings()
	if _, err := repository.LoadJSON(ctx, uc.store, repository.KeySettings, &settings); err != nil {
		return err
	}
	uc.settings = settings
	uc.loaded = true
	return nil
}
