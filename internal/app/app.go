package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/infrastructure/buffer"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskflow/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskflow/internal/infrastructure/redis"
	"github.com/fastygo/taskflow/internal/services"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/repository"
	boltRepo "github.com/fastygo/taskflow/repository/bolt"
	"github.com/fastygo/taskflow/repository/memory"
	pgRepo "github.com/fastygo/taskflow/repository/postgres"
	redisRepo "github.com/fastygo/taskflow/repository/redis"
	"github.com/fastygo/taskflow/usecase"
	backupUC "github.com/fastygo/taskflow/usecase/backup"
	ledgerUC "github.com/fastygo/taskflow/usecase/ledger"
	profileUC "github.com/fastygo/taskflow/usecase/profile"
	settingsUC "github.com/fastygo/taskflow/usecase/settings"
	storeUC "github.com/fastygo/taskflow/usecase/store"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

const monitorInterval = 10 * time.Second

// App holds the wired use cases shared by the HTTP server and the CLI.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Documents repository.DocumentStore
	Events    *usecase.Dispatcher
	Monitor   *monitor.Monitor
	Processor *services.BufferProcessor

	Tasks    *taskUC.UseCase
	Ledger   *ledgerUC.UseCase
	Store    *storeUC.UseCase
	Settings *settingsUC.UseCase
	Profile  *profileUC.UseCase
	Backup   *backupUC.UseCase
}

// New opens the configured document store and wires every use case on top of it. Resources
// that need closing are registered on manager.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, manager *lifecycle.Manager) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	primary, err := openStore(ctx, cfg, logger, manager)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	a.Documents = primary

	var bufSizer monitor.BufferSizer
	if cfg.Remote() && cfg.Buffer.Enabled {
		bufferStore, err := buffer.Open(cfg.Buffer.Path, cfg.Store.Namespace)
		if err != nil {
			return nil, fmt.Errorf("open buffer: %w", err)
		}
		manager.RegisterCloser("buffer", bufferStore)
		bufSizer = bufferStore

		a.Monitor = monitor.New(cfg.Store.Driver, pinger(primary), bufSizer, monitorInterval, logger)
		a.Processor = services.NewBufferProcessor(bufferStore, a.Monitor, primary, logger, services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		})
		a.Documents = services.NewBufferBridge(primary, a.Processor, logger)
	} else {
		a.Monitor = monitor.New(cfg.Store.Driver, pinger(primary), nil, monitorInterval, logger)
	}

	a.Events = usecase.NewDispatcher()
	a.Ledger = ledgerUC.New(a.Documents, logger)
	a.Tasks = taskUC.New(a.Documents, a.Events, logger, taskUC.Config{
		CoinsPerTask: cfg.Rewards.CoinsPerTask,
		SeedDemo:     cfg.Rewards.SeedDemo,
	})
	a.Store = storeUC.New(a.Ledger, a.Events, logger)
	a.Settings = settingsUC.New(a.Documents, logger)
	a.Profile = profileUC.New(a.Tasks, a.Ledger, logger)
	a.Backup = backupUC.New(a.Documents, a.Settings, logger, a.Tasks, a.Ledger, a.Settings)

	a.Events.Subscribe(domain.EventTaskCompletionChanged, a.Ledger.HandleCompletionChanged)
	a.Events.Subscribe(domain.EventItemPurchased, func(_ context.Context, event domain.Event) error {
		if purchased, ok := event.(domain.ItemPurchased); ok {
			logger.Info("purchase notification",
				zap.String("item_id", purchased.ItemID),
				zap.Int("balance", purchased.Balance))
		}
		return nil
	})

	return a, nil
}

// Start launches the background monitor and, for remote stores, the buffer replay schedule.
func (a *App) Start(manager *lifecycle.Manager) {
	a.Monitor.Start()
	manager.Register("monitor", func(context.Context) error {
		a.Monitor.Stop()
		return nil
	})
	if a.Processor != nil {
		a.Processor.Start()
		manager.Register("buffer_processor", func(ctx context.Context) error {
			a.Processor.Stop(ctx)
			return nil
		})
	}
}

// Sync replays buffered writes once if the primary store answers.
func (a *App) Sync(ctx context.Context) error {
	if a.Processor == nil {
		return nil
	}
	a.Monitor.Refresh(ctx)
	return a.Processor.Drain(ctx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, manager *lifecycle.Manager) (repository.DocumentStore, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.NewDocumentStore(), nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		manager.RegisterCloser("redis", client)
		return redisRepo.NewDocumentStore(client, cfg.Store.Namespace), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, logger)
			return nil
		})
		return pgRepo.NewDocumentStore(pool, cfg.Store.Namespace), nil

	default:
		store, err := boltRepo.Open(cfg.Store.BoltPath, cfg.Store.Namespace)
		if err != nil {
			return nil, err
		}
		manager.RegisterCloser("bolt", store)
		logger.Debug("bolt document store opened", zap.String("path", cfg.Store.BoltPath))
		return store, nil
	}
}

func pinger(store repository.DocumentStore) repository.Pinger {
	if p, ok := store.(repository.Pinger); ok {
		return p
	}
	return nil
}
