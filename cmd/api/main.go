package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Ahmed-Younes0x/greenswap/internal/api/http"
	"github.com/Ahmed-Younes0x/greenswap/internal/api/http/handlers"
	"github.com/Ahmed-Younes0x/greenswap/internal/auth"
	"github.com/Ahmed-Younes0x/greenswap/internal/config"
	"github.com/Ahmed-Younes0x/greenswap/internal/events"
	"github.com/Ahmed-Younes0x/greenswap/internal/observability"
	"github.com/Ahmed-Younes0x/greenswap/internal/persistence"
	"github.com/Ahmed-Younes0x/greenswap/internal/repository"
	"github.com/Ahmed-Younes0x/greenswap/internal/service"
	"github.com/Ahmed-Younes0x/greenswap/internal/worker"
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	refreshStore := auth.NewRedisRefreshTokenStore(redis.Client)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		RefreshStore: refreshStore,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	itemService := service.NewItemService(service.ItemDependencies{
		ItemRepo:     itemRepo,
		CategoryRepo: categoryRepo,
		ReportRepo:   reportRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		ItemRepo:   itemRepo,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(logger, cfg.Notification)
	worker.StartNotificationWorker(ctx, dispatcher, notificationService, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	authHandler := handlers.NewAuthHandler(authService)
	itemsHandler := handlers.NewItemsHandler(itemService)
	ordersHandler := handlers.NewOrdersHandler(orderService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Items:          itemsHandler,
		Orders:         ordersHandler,
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
