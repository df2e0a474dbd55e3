package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/repository/memory"
	"github.com/fastygo/taskflow/usecase"
	backupUC "github.com/fastygo/taskflow/usecase/backup"
	"github.com/fastygo/taskflow/usecase/calendar"
	ledgerUC "github.com/fastygo/taskflow/usecase/ledger"
	profileUC "github.com/fastygo/taskflow/usecase/profile"
	settingsUC "github.com/fastygo/taskflow/usecase/settings"
	storeUC "github.com/fastygo/taskflow/usecase/store"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
	Meta   json.RawMessage `json:"meta"`
}

type fixture struct {
	tasks    *TaskHandler
	calendar *CalendarHandler
	profile  *ProfileHandler
	store    *StoreHandler
	settings *SettingsHandler
	data     *DataHandler
	ledger   *ledgerUC.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	docs := memory.NewDocumentStore()
	events := usecase.NewDispatcher()
	adapter := httpcontext.NewAdapter(time.Second)

	ledger := ledgerUC.New(docs, nil)
	tasks := taskUC.New(docs, events, nil, taskUC.Config{})
	settings := settingsUC.New(docs, nil)
	events.Subscribe(domain.EventTaskCompletionChanged, ledger.HandleCompletionChanged)

	return &fixture{
		tasks:    NewTaskHandler(tasks, settings, adapter, nil),
		calendar: NewCalendarHandler(tasks, adapter, nil),
		profile:  NewProfileHandler(profileUC.New(tasks, ledger, nil), adapter, nil),
		store:    NewStoreHandler(storeUC.New(ledger, events, nil), adapter, nil),
		settings: NewSettingsHandler(settings, adapter, nil),
		data:     NewDataHandler(backupUC.New(docs, settings, nil, tasks, ledger, settings), adapter, nil),
		ledger:   ledger,
	}
}

func request(method, uri, body string, params map[string]string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	for k, v := range params {
		ctx.SetUserValue(k, v)
	}
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx, wantStatus int) envelope {
	t.Helper()
	if got := ctx.Response.StatusCode(); got != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", got, wantStatus, ctx.Response.Body())
	}
	var env envelope
	if len(ctx.Response.Body()) == 0 {
		return env
	}
	if err := json.Unmarshal(ctx.Response.Body(), &env); err != nil {
		t.Fatalf("decode %s: %v", ctx.Response.Body(), err)
	}
	return env
}

func (f *fixture) create(t *testing.T, body string) domain.Task {
	t.Helper()
	ctx := request(http.MethodPost, "/api/v1/tasks", body, nil)
	f.tasks.CreateTask(ctx)
	env := decode(t, ctx, http.StatusCreated)
	var task domain.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Fatal(err)
	}
	return task
}

func TestTaskLifecycle(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, `{"title":"Write report","category":"Work","dueDate":"2024-03-01"}`)
	if first.ID != 1 || first.Priority != domain.PriorityMedium {
		t.Fatalf("created = %+v", first)
	}
	second := f.create(t, `{"title":"Buy milk","priority":"high","category":"Shopping"}`)
	if second.ID != 2 {
		t.Fatalf("second id = %d", second.ID)
	}

	ctx := request(http.MethodPost, "/api/v1/tasks/1/toggle", "", map[string]string{"id": "1"})
	f.tasks.ToggleTask(ctx)
	decode(t, ctx, http.StatusOK)
	if stats, _ := f.ledger.Stats(context.Background()); stats.Coins != 160 {
		t.Errorf("coins after toggle = %d, want 160", stats.Coins)
	}

	ctx = request(http.MethodGet, "/api/v1/tasks?sort=priority", "", nil)
	f.tasks.GetTasks(ctx)
	env := decode(t, ctx, http.StatusOK)
	var listed []domain.Task
	_ = json.Unmarshal(env.Data, &listed)
	if len(listed) != 2 || listed[0].ID != 2 {
		t.Errorf("priority order = %+v", listed)
	}
	var meta struct {
		Total     int     `json:"total"`
		Completed int     `json:"completed"`
		Progress  float64 `json:"progress"`
		Sort      string  `json:"sort"`
	}
	_ = json.Unmarshal(env.Meta, &meta)
	if meta.Total != 2 || meta.Completed != 1 || meta.Progress != 50 || meta.Sort != "priority" {
		t.Errorf("meta = %+v", meta)
	}

	ctx = request(http.MethodGet, "/api/v1/tasks?category=Shopping", "", nil)
	f.tasks.GetTasks(ctx)
	env = decode(t, ctx, http.StatusOK)
	_ = json.Unmarshal(env.Data, &listed)
	if len(listed) != 1 || listed[0].Title != "Buy milk" {
		t.Errorf("category filter = %+v", listed)
	}

	ctx = request(http.MethodPut, "/api/v1/tasks/2", `{"title":"Buy oat milk","priority":"low"}`, map[string]string{"id": "2"})
	f.tasks.UpdateTask(ctx)
	env = decode(t, ctx, http.StatusOK)
	var updated domain.Task
	_ = json.Unmarshal(env.Data, &updated)
	if updated.Title != "Buy oat milk" || updated.ID != 2 || updated.Category != domain.DefaultCategory {
		t.Errorf("updated = %+v", updated)
	}

	ctx = request(http.MethodDelete, "/api/v1/tasks/2", "", map[string]string{"id": "2"})
	f.tasks.DeleteTask(ctx)
	decode(t, ctx, http.StatusNoContent)

	ctx = request(http.MethodGet, "/api/v1/tasks/2", "", map[string]string{"id": "2"})
	f.tasks.GetTask(ctx)
	if env := decode(t, ctx, http.StatusNotFound); env.Code != "NOT_FOUND" {
		t.Errorf("code = %q", env.Code)
	}
}

func (f *fixture) coins(t *testing.T) int {
	t.Helper()
	stats, err := f.ledger.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	return stats.Coins
}

func TestEditCannotChangeCompletion(t *testing.T) {
	f := newFixture(t)
	before := f.coins(t)

	created := f.create(t, `{"title":"Call dentist","completed":true}`)
	if created.Completed {
		t.Fatal("create accepted completed=true")
	}
	if got := f.coins(t); got != before {
		t.Fatalf("coins after create = %d, want %d", got, before)
	}

	for round := 0; round < 3; round++ {
		ctx := request(http.MethodPost, "/api/v1/tasks/1/toggle", "", map[string]string{"id": "1"})
		f.tasks.ToggleTask(ctx)
		decode(t, ctx, http.StatusOK)

		ctx = request(http.MethodPut, "/api/v1/tasks/1", `{"title":"Call dentist","priority":"low"}`, map[string]string{"id": "1"})
		f.tasks.UpdateTask(ctx)
		env := decode(t, ctx, http.StatusOK)
		var updated domain.Task
		_ = json.Unmarshal(env.Data, &updated)
		if wantDone := round%2 == 0; updated.Completed != wantDone {
			t.Fatalf("round %d: completed = %v, want %v", round, updated.Completed, wantDone)
		}
	}

	// three toggles leave the task completed, so exactly one credit is outstanding
	if got := f.coins(t); got != before+10 {
		t.Errorf("coins = %d, want %d", got, before+10)
	}
}

func TestUncompleteClampsAtZero(t *testing.T) {
	f := newFixture(t)
	f.create(t, `{"title":"Stretch"}`)

	ctx := request(http.MethodPost, "/api/v1/tasks/1/toggle", "", map[string]string{"id": "1"})
	f.tasks.ToggleTask(ctx)
	decode(t, ctx, http.StatusOK)

	if _, err := f.ledger.Debit(context.Background(), f.coins(t)-4); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if got := f.coins(t); got != 4 {
		t.Fatalf("coins = %d, want 4", got)
	}

	ctx = request(http.MethodPost, "/api/v1/tasks/1/toggle", "", map[string]string{"id": "1"})
	f.tasks.ToggleTask(ctx)
	decode(t, ctx, http.StatusOK)
	if got := f.coins(t); got != 0 {
		t.Errorf("coins after un-complete = %d, want 0", got)
	}
}

func TestTaskValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		run    func(*fasthttp.RequestCtx)
		ctx    *fasthttp.RequestCtx
		status int
	}{
		{"empty title", f.tasks.CreateTask, request(http.MethodPost, "/", `{"title":"   "}`, nil), http.StatusBadRequest},
		{"malformed body", f.tasks.CreateTask, request(http.MethodPost, "/", `{`, nil), http.StatusBadRequest},
		{"bad due date", f.tasks.CreateTask, request(http.MethodPost, "/", `{"title":"x","dueDate":"03/01/2024"}`, nil), http.StatusBadRequest},
		{"bad priority", f.tasks.CreateTask, request(http.MethodPost, "/", `{"title":"x","priority":"urgent"}`, nil), http.StatusBadRequest},
		{"bad id", f.tasks.GetTask, request(http.MethodGet, "/", "", map[string]string{"id": "abc"}), http.StatusBadRequest},
		{"unknown id", f.tasks.ToggleTask, request(http.MethodPost, "/", "", map[string]string{"id": "99"}), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(tt.ctx)
			env := decode(t, tt.ctx, tt.status)
			if env.Status != "error" {
				t.Errorf("status field = %q", env.Status)
			}
		})
	}
}

func TestCreateUsesPreferredPriority(t *testing.T) {
	f := newFixture(t)
	ctx := request(http.MethodPatch, "/api/v1/settings", `{"preferences":{"defaultTaskPriority":"high"}}`, nil)
	f.settings.PatchSettings(ctx)
	decode(t, ctx, http.StatusOK)

	if task := f.create(t, `{"title":"Plan sprint"}`); task.Priority != domain.PriorityHigh {
		t.Errorf("priority = %q, want high", task.Priority)
	}
}

func TestPurchaseStatusCodes(t *testing.T) {
	f := newFixture(t)
	buy := func(id string) *fasthttp.RequestCtx {
		ctx := request(http.MethodPost, "/api/v1/store/"+id+"/purchase", "", map[string]string{"id": id})
		f.store.Purchase(ctx)
		return ctx
	}

	env := decode(t, buy("ocean-theme"), http.StatusOK)
	var receipt struct {
		Price   int `json:"price"`
		Balance int `json:"balance"`
	}
	_ = json.Unmarshal(env.Data, &receipt)
	if receipt.Price != 100 || receipt.Balance != 50 {
		t.Errorf("receipt = %+v", receipt)
	}

	if env := decode(t, buy("ocean-theme"), http.StatusConflict); env.Code != "CONFLICT" {
		t.Errorf("code = %q", env.Code)
	}
	if env := decode(t, buy("unlimited-tasks"), http.StatusPaymentRequired); env.Code != "INSUFFICIENT_FUNDS" {
		t.Errorf("code = %q", env.Code)
	}
	decode(t, buy("no-such-item"), http.StatusNotFound)

	ctx := request(http.MethodGet, "/api/v1/store", "", nil)
	f.store.GetCatalog(ctx)
	env = decode(t, ctx, http.StatusOK)
	var listing storeUC.Listing
	_ = json.Unmarshal(env.Data, &listing)
	if listing.Coins != 50 || listing.OwnedCount != 1 {
		t.Errorf("listing = coins %d owned %d", listing.Coins, listing.OwnedCount)
	}
}

func TestSettingsPatchRejectsUnknownField(t *testing.T) {
	f := newFixture(t)
	ctx := request(http.MethodPatch, "/api/v1/settings", `{"appearance":{"font":"serif"}}`, nil)
	f.settings.PatchSettings(ctx)
	decode(t, ctx, http.StatusBadRequest)

	ctx = request(http.MethodPatch, "/api/v1/settings", "", nil)
	f.settings.PatchSettings(ctx)
	decode(t, ctx, http.StatusBadRequest)

	ctx = request(http.MethodGet, "/api/v1/settings", "", nil)
	f.settings.GetSettings(ctx)
	env := decode(t, ctx, http.StatusOK)
	var settings domain.Settings
	_ = json.Unmarshal(env.Data, &settings)
	if settings.Appearance.Theme != "system" {
		t.Errorf("theme = %q, want default", settings.Appearance.Theme)
	}
}

func TestCalendarMonth(t *testing.T) {
	f := newFixture(t)
	f.create(t, `{"title":"Dentist","priority":"high","dueDate":"2024-02-14"}`)

	ctx := request(http.MethodGet, "/api/v1/calendar?year=2024&month=2&selected=2024-02-14", "", nil)
	f.calendar.GetMonth(ctx)
	env := decode(t, ctx, http.StatusOK)
	var month calendar.Month
	if err := json.Unmarshal(env.Data, &month); err != nil {
		t.Fatal(err)
	}
	if len(month.Cells) != 42 {
		t.Errorf("cells = %d, want 42", len(month.Cells))
	}
	if len(month.SelectedTasks) != 1 {
		t.Errorf("selected tasks = %d, want 1", len(month.SelectedTasks))
	}

	for _, uri := range []string{"/api/v1/calendar?month=13", "/api/v1/calendar?selected=tomorrow"} {
		ctx := request(http.MethodGet, uri, "", nil)
		f.calendar.GetMonth(ctx)
		decode(t, ctx, http.StatusBadRequest)
	}
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	f.create(t, `{"title":"One","category":"Work"}`)

	ctx := request(http.MethodGet, "/api/v1/profile", "", nil)
	f.profile.GetProfile(ctx)
	env := decode(t, ctx, http.StatusOK)
	var profile profileUC.Profile
	_ = json.Unmarshal(env.Data, &profile)
	if profile.Stats.TotalTasks != 1 || profile.Stats.Coins != 150 {
		t.Errorf("stats = %+v", profile.Stats)
	}
}

func TestExportAndClear(t *testing.T) {
	f := newFixture(t)
	f.create(t, `{"title":"Keep me"}`)

	ctx := request(http.MethodGet, "/api/v1/data/export", "", nil)
	f.data.Export(ctx)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("export status = %d", ctx.Response.StatusCode())
	}
	disposition := string(ctx.Response.Header.Peek("Content-Disposition"))
	if !strings.HasPrefix(disposition, `attachment; filename="taskflow-backup-`) {
		t.Errorf("Content-Disposition = %q", disposition)
	}
	var bundle backupUC.Bundle
	if err := json.Unmarshal(ctx.Response.Body(), &bundle); err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if !strings.Contains(string(bundle.Tasks), "Keep me") {
		t.Errorf("tasks = %s", bundle.Tasks)
	}

	ctx = request(http.MethodDelete, "/api/v1/data", "", nil)
	f.data.Clear(ctx)
	decode(t, ctx, http.StatusNoContent)

	ctx = request(http.MethodGet, "/api/v1/tasks", "", nil)
	f.tasks.GetTasks(ctx)
	env := decode(t, ctx, http.StatusOK)
	if string(env.Data) != "[]" {
		t.Errorf("tasks after clear = %s", env.Data)
	}
}

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		status monitor.Status
		want   int
	}{
		{"store online", monitor.Status{Driver: "bolt", Store: true}, http.StatusOK},
		{"buffering", monitor.Status{Driver: "redis", Buffer: true, BufferSize: 4}, http.StatusOK},
		{"all down", monitor.Status{Driver: "redis"}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(staticStatus(tt.status), nil, nil)
			ctx := request(http.MethodGet, "/health", "", nil)
			h.Check(ctx)
			decode(t, ctx, tt.want)
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidTitle, http.StatusBadRequest},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrItemOwned, http.StatusConflict},
		{domain.ErrInsufficientCoins, http.StatusPaymentRequired},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := mapError(tt.err); got != tt.want {
			t.Errorf("mapError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
