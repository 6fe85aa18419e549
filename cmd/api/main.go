package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/taskflow/task-service/internal/api/http"
	"github.com/taskflow/task-service/internal/api/http/handlers"
	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/config"
	"github.com/taskflow/task-service/internal/events"
	"github.com/taskflow/task-service/internal/observability"
	"github.com/taskflow/task-service/internal/persistence"
	"github.com/taskflow/task-service/internal/repository"
	"github.com/taskflow/task-service/internal/service"
	"github.com/taskflow/task-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	if cfg.App.SeedDemoData {
		if err := persistence.SeedDemoData(ctx, userRepo, projectRepo, taskRepo, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	projectService := service.NewProjectService(projectRepo, dispatcher)
	taskService := service.NewTaskService(taskRepo, commentRepo, userRepo, projectService, dispatcher)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, logger)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Tasks:          handlers.NewTasksHandler(taskService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
