package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-presence/internal/api/http"
	"github.com/spec-kit/staff-presence/internal/api/http/handlers"
	"github.com/spec-kit/staff-presence/internal/auth"
	"github.com/spec-kit/staff-presence/internal/config"
	"github.com/spec-kit/staff-presence/internal/events"
	"github.com/spec-kit/staff-presence/internal/observability"
	"github.com/spec-kit/staff-presence/internal/persistence"
	"github.com/spec-kit/staff-presence/internal/presence"
	"github.com/spec-kit/staff-presence/internal/repository"
	"github.com/spec-kit/staff-presence/internal/service"
	"github.com/spec-kit/staff-presence/internal/store"
	"github.com/spec-kit/staff-presence/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		staffRepo    repository.StaffRepository
		movementRepo repository.MovementRepository
	)
	if pg.Enabled() {
		staffRepo = repository.NewStaffRepository(pg.PoolHandle())
		movementRepo = repository.NewMovementRepository(pg.PoolHandle())
	} else {
		staffRepo = repository.NewMemoryStaffRepository()
		movementRepo = repository.NewMemoryMovementRepository()
	}

	facade := store.NewFacade(staffRepo, movementRepo, store.FacadeOptions{
		Cache:    store.NewRedisCache(redis.Client, cfg.Cache.KeyPrefix),
		CacheTTL: cfg.Cache.TTL(),
		Logger:   logger,
	})

	dispatcher := events.NewInMemoryDispatcher(logger)
	queue := presence.NewWriteQueue(facade, presence.WriteQueueOptions{
		Size:       cfg.Sync.QueueSize,
		Workers:    cfg.Sync.Workers,
		Timeout:    cfg.Sync.WriteTimeout(),
		Logger:     logger,
		Metrics:    metrics,
		Dispatcher: dispatcher,
	})
	reconciler := presence.NewReconciler(queue, logger, metrics)

	clock := service.Clock(time.Now)
	authService := service.NewAuthService(*cfg, facade, logger)
	staffService := service.NewStaffService(*cfg, facade, dispatcher, logger, clock)
	movementService := service.NewMovementService(facade, dispatcher, logger, clock)
	presenceService := service.NewPresenceService(facade, reconciler, logger, clock)

	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()
	presenceService.RegisterHandlers(dispatcher)

	if err := staffService.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminUsername, cfg.Auth.BootstrapAdminPassword); err != nil {
		logger.Error("failed to bootstrap administrator", zap.Error(err))
	}

	reconcileWorker := worker.NewReconcileWorker(presenceService, cfg.Sync, logger)
	if err := reconcileWorker.Start(); err != nil {
		logger.Fatal("failed to start reconciliation worker", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(staffService),
		Movements:      handlers.NewMovementHandler(movementService),
		Presence:       handlers.NewPresenceHandler(presenceService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	reconcileWorker.Stop(shutdownCtx)
	if err := queue.Shutdown(shutdownCtx); err != nil {
		logger.Warn("status write queue did not drain", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
