package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/internal/app"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/internal/router"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	application, err := app.New(appCtx, cfg, zapLogger, manager)
	if err != nil {
		zapLogger.Error("bootstrap failed", zap.Error(err))
		_ = manager.Shutdown(context.Background())
		zapLogger.Fatal("cannot start", zap.String("driver", cfg.Store.Driver))
	}
	application.Start(manager)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Health:   apiHandler.NewHealthHandler(application.Monitor, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(application.Tasks, application.Settings, ctxAdapter, zapLogger),
		Calendar: apiHandler.NewCalendarHandler(application.Tasks, ctxAdapter, zapLogger),
		Profile:  apiHandler.NewProfileHandler(application.Profile, ctxAdapter, zapLogger),
		Store:    apiHandler.NewStoreHandler(application.Store, ctxAdapter, zapLogger),
		Settings: apiHandler.NewSettingsHandler(application.Settings, ctxAdapter, zapLogger),
		Data:     apiHandler.NewDataHandler(application.Backup, ctxAdapter, zapLogger),
	}
	r := router.New(handlers)

	mws := []middleware.Middleware{
		middleware.RequestLogger(zapLogger),
		middleware.Recovery(zapLogger),
	}
	if cfg.HTTP.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
		mws = append(mws, limiter.Middleware())
	}

	server := &fasthttp.Server{
		Handler:      middleware.Chain(r.Handler, mws...),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
