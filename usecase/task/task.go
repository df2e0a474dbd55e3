package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/usecase"
)

// DefaultCoinsPerTask is credited on completion and debited on un-completion.
const DefaultCoinsPerTask = 10

type Config struct {
	CoinsPerTask int
	// SeedDemo substitutes the demo task list when no tasks document exists yet.
	SeedDemo bool
	Now      func() time.Time
}

// UseCase owns the ordered task collection and keeps the tasks document in sync with it.
type UseCase struct {
	store  repository.DocumentStore
	events usecase.EventPublisher
	logger *zap.Logger
	cfg    Config

	mu     sync.Mutex
	loaded bool
	tasks  []domain.Task
}

func New(store repository.DocumentStore, events usecase.EventPublisher, logger *zap.Logger, cfg Config) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CoinsPerTask <= 0 {
		cfg.CoinsPerTask = DefaultCoinsPerTask
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &UseCase{
		store:  store,
		events: events,
		logger: logger,
		cfg:    cfg,
	}
}

// ListTasks returns a copy of every task in insertion order.
func (uc *UseCase) ListTasks(ctx context.Context) ([]domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return nil, err
	}
	return cloneTasks(uc.tasks), nil
}

func (uc *UseCase) GetTask(ctx context.Context, id int) (*domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return nil, err
	}
	idx := uc.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	t := cloneTask(uc.tasks[idx])
	return &t, nil
}

// CreateTask assigns id = max(existing ids, 0) + 1, stamps CreatedAt and appends the task.
func (uc *UseCase) CreateTask(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	if err := fields.Normalize(domain.PriorityMedium); err != nil {
		uc.logger.Debug("task create rejected", zap.Error(err))
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return nil, err
	}

	created := domain.Task{
		ID:        nextID(uc.tasks),
		CreatedAt: uc.cfg.Now(),
	}
	created.Apply(fields)

	next := append(cloneTasks(uc.tasks), created)
	if err := uc.persist(ctx, next); err != nil {
		return nil, err
	}
	uc.logger.Info("task created", zap.Int("task_id", created.ID))
	out := cloneTask(created)
	return &out, nil
}

// UpdateTask replaces every editable field; ID and CreatedAt are kept from the stored record.
func (uc *UseCase) UpdateTask(ctx context.Context, id int, fields domain.TaskFields) (*domain.Task, error) {
	if err := fields.Normalize(domain.PriorityMedium); err != nil {
		uc.logger.Debug("task update rejected", zap.Int("task_id", id), zap.Error(err))
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return nil, err
	}
	idx := uc.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}

	next := cloneTasks(uc.tasks)
	next[idx].Apply(fields)
	if err := uc.persist(ctx, next); err != nil {
		return nil, err
	}
	uc.logger.Info("task updated", zap.Int("task_id", id))
	out := cloneTask(next[idx])
	return &out, nil
}

// ToggleCompletion flips the completion flag and publishes TaskCompletionChanged so the
// ledger can credit or debit coins.
func (uc *UseCase) ToggleCompletion(ctx context.Context, id int) (*domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return nil, err
	}
	idx := uc.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}

	next := cloneTasks(uc.tasks)
	next[idx].Completed = !next[idx].Completed
	if err := uc.persist(ctx, next); err != nil {
		return nil, err
	}

	toggled := cloneTask(next[idx])
	delta := uc.cfg.CoinsPerTask
	if !toggled.Completed {
		delta = -delta
	}
	if uc.events != nil {
		event := domain.TaskCompletionChanged{
			TaskID:     id,
			Completed:  toggled.Completed,
			Delta:      delta,
			OccurredAt: uc.cfg.Now(),
		}
		if err := uc.events.Publish(ctx, event); err != nil {
			uc.logger.Error("completion event not applied", zap.Int("task_id", id), zap.Error(err))
			return nil, err
		}
	}
	uc.logger.Info("task toggled", zap.Int("task_id", id), zap.Bool("completed", toggled.Completed))
	return &toggled, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id int) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return err
	}
	idx := uc.indexOf(id)
	if idx < 0 {
		return domain.ErrTaskNotFound
	}

	next := make([]domain.Task, 0, len(uc.tasks)-1)
	next = append(next, uc.tasks[:idx]...)
	next = append(next, uc.tasks[idx+1:]...)
	if err := uc.persist(ctx, cloneTasks(next)); err != nil {
		return err
	}
	uc.logger.Info("task deleted", zap.Int("task_id", id))
	return nil
}

// Reset drops the cached collection so the next call reloads from the store.
func (uc *UseCase) Reset(context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.loaded = false
	uc.tasks = nil
}

func (uc *UseCase) load(ctx context.Context) error {
	if uc.loaded {
		return nil
	}
	var stored []domain.Task
	found, err := repository.LoadJSON(ctx, uc.store, repository.KeyTasks, &stored)
	if err != nil {
		return err
	}
	if !found {
		if uc.cfg.SeedDemo {
			stored = DemoTasks(uc.cfg.Now())
			if err := repository.SaveJSON(ctx, uc.store, repository.KeyTasks, stored); err != nil {
				return err
			}
			uc.logger.Info("seeded demo tasks", zap.Int("count", len(stored)))
		} else {
			stored = []domain.Task{}
		}
	}
	uc.tasks = stored
	uc.loaded = true
	return nil
}

// persist writes the full collection and only then swaps it in, so a failed write leaves the
// in-memory state untouched.
func (uc *UseCase) persist(ctx context.Context, next []domain.Task) error {
	if err := repository.SaveJSON(ctx, uc.store, repository.KeyTasks, next); err != nil {
		uc.logger.Error("failed to persist tasks", zap.Error(err))
		return err
	}
	uc.tasks = next
	return nil
}

func (uc *UseCase) indexOf(id int) int {
	for i := range uc.tasks {
		if uc.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func nextID(tasks []domain.Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i := range tasks {
		out[i] = cloneTask(tasks[i])
	}
	return out
}

func cloneTask(t domain.Task) domain.Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
