package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/repository/memory"
	settingsUC "github.com/fastygo/taskflow/usecase/settings"
)

type resetCounter struct{ calls int }

func (r *resetCounter) Reset(context.Context) { r.calls++ }

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, time.January, 15, 23, 0, 0, 0, time.UTC))
	if got != "taskflow-backup-2024-01-15.json" {
		t.Errorf("FileName = %s", got)
	}
}

func TestExportFillsMissingDocuments(t *testing.T) {
	store := memory.NewDocumentStore()
	uc := New(store, settingsUC.New(store, nil), nil)

	bundle, err := uc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if string(bundle.Tasks) != "[]" || string(bundle.UserStats) != "{}" || string(bundle.OwnedItems) != "[]" {
		t.Errorf("bundle = %s %s %s", bundle.Tasks, bundle.UserStats, bundle.OwnedItems)
	}
	if bundle.Settings != domain.DefaultSettings() {
		t.Errorf("settings = %+v", bundle.Settings)
	}
}

func TestEncodeIncludesStoredDocuments(t *testing.T) {
	store := memory.NewDocumentStore()
	ctx := context.Background()
	_ = store.Set(ctx, repository.KeyTasks, []byte(`[{"id":1,"title":"A"}]`))
	_ = store.Set(ctx, repository.KeyOwnedItems, []byte(`["ocean-theme"]`))

	uc := New(store, settingsUC.New(store, nil), nil)
	uc.now = func() time.Time { return time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC) }

	body, name, err := uc.Encode(ctx)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if name != "taskflow-backup-2024-03-02.json" {
		t.Errorf("name = %s", name)
	}

	var decoded struct {
		Tasks      []map[string]interface{} `json:"tasks"`
		Settings   map[string]interface{}   `json:"settings"`
		UserStats  map[string]interface{}   `json:"userStats"`
		OwnedItems []string                 `json:"ownedItems"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded.Tasks) != 1 || len(decoded.OwnedItems) != 1 || decoded.Settings["appearance"] == nil {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestExportRejectsCorruptDocument(t *testing.T) {
	store := memory.NewDocumentStore()
	_ = store.Set(context.Background(), repository.KeyUserStats, []byte(`{broken`))
	uc := New(store, settingsUC.New(store, nil), nil)

	if _, err := uc.Export(context.Background()); !domain.IsDomainError(err, domain.ErrCodeInternal) {
		t.Errorf("err = %v, want INTERNAL", err)
	}
}

func TestClearDeletesEveryKeyAndResets(t *testing.T) {
	store := memory.NewDocumentStore()
	ctx := context.Background()
	for _, key := range repository.AllKeys {
		_ = store.Set(ctx, key, []byte(`{}`))
	}
	_ = store.Set(ctx, "unrelated", []byte(`1`))

	counter := &resetCounter{}
	uc := New(store, settingsUC.New(store, nil), nil, counter, counter)
	if err := uc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	keys := store.Keys()
	if len(keys) != 1 || keys[0] != "unrelated" {
		t.Errorf("remaining keys = %v", keys)
	}
	if counter.calls != 2 {
		t.Errorf("reset calls = %d, want 2", counter.calls)
	}
}
