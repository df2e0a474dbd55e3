package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/internal/app"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/internal/ui"
	"github.com/fastygo/taskflow/pkg/logger"
)

const Version = "0.1.0"

const lockTimeout = 5 * time.Second

// session is the application opened for the running command.
type session struct {
	app     *app.App
	manager *lifecycle.Manager
	lock    *flock.Flock
	logger  *zap.Logger
}

var current *session

func newRootCmd() *cobra.Command {
	var (
		driver  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "taskflow",
		Short:         "TaskFlow: tasks, coins and rewards from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if driver != "" {
				if err := os.Setenv("STORE_DRIVER", driver); err != nil {
					return err
				}
			}
			return open(cmd.Context(), verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&driver, "store", "", "Document store (bolt|redis|postgres|memory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newAddCmd(),
		newEditCmd(),
		newDoneCmd(),
		newRmCmd(),
		newListCmd(),
		newCalendarCmd(),
		newStoreCmd(),
		newBuyCmd(),
		newProfileCmd(),
		newSettingsCmd(),
		newExportCmd(),
		newClearCmd(),
	)
	return cmd
}

func Execute() {
	rootCmd := newRootCmd()
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	err := rootCmd.ExecuteContext(context.Background())
	if closeErr := closeSession(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

func open(ctx context.Context, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	zapLogger, err := logger.New(logger.Config{Level: level, Encoding: "console", Output: os.Stderr})
	if err != nil {
		return err
	}

	lock, err := acquireLock(ctx, cfg.Store.LockPath)
	if err != nil {
		return err
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	a, err := app.New(ctx, cfg, zapLogger, manager)
	if err != nil {
		_ = manager.Shutdown(ctx)
		_ = lock.Unlock()
		return err
	}
	if err := a.Sync(ctx); err != nil {
		zapLogger.Warn("buffered writes not replayed", zap.Error(err))
	}

	current = &session{app: a, manager: manager, lock: lock, logger: zapLogger}
	return nil
}

func closeSession() error {
	if current == nil {
		return nil
	}
	s := current
	current = nil

	err := s.manager.Shutdown(context.Background())
	if unlockErr := s.lock.Unlock(); unlockErr != nil {
		err = errors.Join(err, unlockErr)
	}
	_ = s.logger.Sync()
	return err
}

// acquireLock serializes CLI invocations that share a data directory.
func acquireLock(ctx context.Context, path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	lock := flock.New(path)

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another taskflow process holds %s", path)
	}
	return lock, nil
}

func taskflow() *app.App {
	return current.app
}
