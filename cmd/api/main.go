package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Wadangzz/Dessert-Gemini/internal/api/http"
	"github.com/Wadangzz/Dessert-Gemini/internal/api/http/handlers"
	"github.com/Wadangzz/Dessert-Gemini/internal/auth"
	"github.com/Wadangzz/Dessert-Gemini/internal/cache"
	"github.com/Wadangzz/Dessert-Gemini/internal/config"
	"github.com/Wadangzz/Dessert-Gemini/internal/events"
	"github.com/Wadangzz/Dessert-Gemini/internal/executor"
	"github.com/Wadangzz/Dessert-Gemini/internal/identity"
	"github.com/Wadangzz/Dessert-Gemini/internal/interpreter"
	"github.com/Wadangzz/Dessert-Gemini/internal/llm"
	"github.com/Wadangzz/Dessert-Gemini/internal/observability"
	"github.com/Wadangzz/Dessert-Gemini/internal/persistence"
	"github.com/Wadangzz/Dessert-Gemini/internal/repository"
	"github.com/Wadangzz/Dessert-Gemini/internal/service"
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

	prompts, err := llm.LoadPromptCatalog(cfg.Prompts.Path)
	if err != nil {
		logger.Fatal("failed to load prompt catalog", zap.Error(err))
	}

	pool := pg.PoolHandle()
	inventoryRepo := repository.NewInventoryRepository(pool)
	purchaseLogRepo := repository.NewPurchaseLogRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	identities := identity.NewPostgresProvider(pool, cfg.Auth.BcryptCost, cfg.Auth.ServiceRoleKey)

	dispatcher := events.NewInMemoryDispatcher()
	inventoryCache := cache.NewInventoryCache(redis.Client, inventoryRepo, logger)
	inventoryCache.SubscribeTo(dispatcher)

	metrics := observability.NewMetrics()
	completer := llm.NewGeminiClient(cfg.Gemini)

	exec := executor.New(executor.Dependencies{
		InventoryRepo:   inventoryRepo,
		PurchaseLogRepo: purchaseLogRepo,
		EmployeeRepo:    employeeRepo,
		Identities:      identities,
		Dispatcher:      dispatcher,
		Logger:          logger,
		LoginDomain:     cfg.Auth.LoginDomain,
		ServiceRoleKey:  cfg.Auth.ServiceRoleKey,
	})

	engine := interpreter.NewEngine(interpreter.EngineDependencies{
		Completer:  completer,
		Prompts:    prompts,
		Executor:   exec,
		Aggregator: interpreter.NewAggregator(completer, logger),
		Metrics:    metrics,
		Logger:     logger,
	})

	sessionService := service.NewSessionService(*cfg, service.SessionDependencies{
		Identities:   identities,
		EmployeeRepo: employeeRepo,
	})
	commandService := service.NewCommandService(engine, cfg.App.CommandTimeout())
	authMiddleware := auth.NewAuthMiddleware(sessionService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Sessions:       handlers.NewSessionHandler(sessionService),
		Commands:       handlers.NewCommandsHandler(commandService),
		Inventory:      handlers.NewInventoryHandler(inventoryCache),
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
