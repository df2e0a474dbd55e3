package settings

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/repository/memory"
)

func TestGetReturnsDefaults(t *testing.T) {
	uc := New(memory.NewDocumentStore(), nil)
	got, err := uc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(domain.DefaultSettings(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchDeepMerges(t *testing.T) {
	store := memory.NewDocumentStore()
	uc := New(store, nil)
	ctx := context.Background()

	got, err := uc.Patch(ctx, []byte(`{"appearance":{"theme":"dark"},"notifications":{"dailyDigest":false}}`))
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	want := domain.DefaultSettings()
	want.Appearance.Theme = "dark"
	want.Notifications.DailyDigest = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged settings mismatch (-want +got):\n%s", diff)
	}

	var persisted domain.Settings
	if _, err := repository.LoadJSON(ctx, store, repository.KeySettings, &persisted); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, persisted); diff != "" {
		t.Errorf("persisted settings mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchMergesIntoStoredDocument(t *testing.T) {
	store := memory.NewDocumentStore()
	if err := store.Set(context.Background(), repository.KeySettings, []byte(`{"preferences":{"timeFormat":"24h"}}`)); err != nil {
		t.Fatal(err)
	}
	uc := New(store, nil)

	got, err := uc.Set(context.Background(), domain.SectionPreferences, "taskSortOrder", domain.SortPriority)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got.Preferences.TimeFormat != "24h" || got.Preferences.TaskSortOrder != domain.SortPriority {
		t.Errorf("preferences = %+v", got.Preferences)
	}
	if got.Preferences.DefaultTaskPriority != domain.PriorityMedium {
		t.Errorf("missing field not defaulted: %+v", got.Preferences)
	}
}

func TestPatchRejects(t *testing.T) {
	tests := []struct {
		name  string
		patch string
	}{
		{"unknown section", `{"billing":{"plan":"pro"}}`},
		{"unknown field", `{"appearance":{"fontSize":12}}`},
		{"wrong type", `{"privacy":{"analytics":"yes"}}`},
		{"invalid enum", `{"appearance":{"theme":"neon"}}`},
		{"malformed", `{"appearance":`},
		{"trailing content", `{"appearance":{"theme":"dark"}} garbage`},
		{"second object", `{"appearance":{"theme":"dark"}}{"privacy":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewDocumentStore()
			uc := New(store, nil)
			ctx := context.Background()

			_, err := uc.Patch(ctx, []byte(tt.patch))
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Fatalf("err = %v, want INVALID", err)
			}
			got, _ := uc.Get(ctx)
			if diff := cmp.Diff(domain.DefaultSettings(), got); diff != "" {
				t.Errorf("settings changed by rejected patch:\n%s", diff)
			}
			if len(store.Keys()) != 0 {
				t.Errorf("rejected patch persisted: %v", store.Keys())
			}
		})
	}
}
