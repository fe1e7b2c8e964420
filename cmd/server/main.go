package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskkeeper/backend/api/handler"
	"github.com/taskkeeper/backend/internal/config"
	"github.com/taskkeeper/backend/internal/infrastructure/monitor"
	"github.com/taskkeeper/backend/internal/middleware"
	"github.com/taskkeeper/backend/internal/router"
	"github.com/taskkeeper/backend/internal/services"
	"github.com/taskkeeper/backend/internal/services/lifecycle"
	"github.com/taskkeeper/backend/pkg/httpcontext"
	"github.com/taskkeeper/backend/pkg/logger"
	boltRepo "github.com/taskkeeper/backend/repository/bolt"
	memRepo "github.com/taskkeeper/backend/repository/memory"
	authUC "github.com/taskkeeper/backend/usecase/auth"
	"github.com/taskkeeper/backend/usecase/tasks"
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

	snapshots, err := boltRepo.Open(cfg.Snapshot.Path)
	if err != nil {
		zapLogger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	manager.Register("snapshot_store", func(ctx context.Context) error {
		return snapshots.Close()
	})

	userRepo := memRepo.NewUserRepository()
	sessionRepo := memRepo.NewSessionRepository(cfg.Session.TTL)

	store := tasks.New(snapshots, zapLogger)

	authUseCase := authUC.New(userRepo, sessionRepo, authUC.Config{
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		SessionTTL: cfg.Session.TTL,
	}, zapLogger)
	authUseCase.Subscribe(store)

	janitor := services.NewSessionJanitor(sessionRepo, cfg.Session.PruneInterval, zapLogger)
	janitor.Start()
	manager.Register("session_janitor", func(ctx context.Context) error {
		janitor.Stop()
		return nil
	})

	mon := monitor.New(snapshots, store, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(store, ctxAdapter, zapLogger),
		Category: apiHandler.NewCategoryHandler(store, ctxAdapter, zapLogger),
		Views:    apiHandler.NewViewsHandler(store, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(cfg.JWT.Secret, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
