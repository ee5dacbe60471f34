package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerbook/internal/adapter/http"
	"github.com/iho/ledgerbook/internal/adapter/http/handler"
	postgresRepo "github.com/iho/ledgerbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerbook/internal/adapter/repository/redis"
	"github.com/iho/ledgerbook/internal/infrastructure/config"
	"github.com/iho/ledgerbook/internal/infrastructure/eventpublisher"
	"github.com/iho/ledgerbook/internal/infrastructure/logger"
	"github.com/iho/ledgerbook/internal/infrastructure/logging"
	"github.com/iho/ledgerbook/internal/infrastructure/metrics"
	"github.com/iho/ledgerbook/internal/infrastructure/postgres"
	"github.com/iho/ledgerbook/internal/infrastructure/redis"
	"github.com/iho/ledgerbook/internal/usecase"
)

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, int(cfg.DatabaseMaxConns), int(cfg.DatabaseMinConns))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	rateRepo := postgresRepo.NewRateRepository(pool)
	periodRepo := postgresRepo.NewPeriodRepository(pool)
	dimensionRepo := postgresRepo.NewDimensionRepository(pool)
	budgetRepo := postgresRepo.NewBudgetRepository(pool)
	reportRepo := postgresRepo.NewReportRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, reportRepo, outboxRepo, idGen)
	rateUC := usecase.NewRateUseCase(rateRepo, cache, idGen, m, cfg.BaseCurrency)
	periodUC := usecase.NewPeriodUseCase(txManager, periodRepo, outboxRepo, idGen)
	postingUC := usecase.NewPostingUseCase(
		txManager,
		accountRepo,
		txnRepo,
		periodRepo,
		outboxRepo,
		auditRepo,
		rateUC,
		retrier,
		idGen,
		m,
		cfg.BaseCurrency,
	)
	workflowUC := usecase.NewWorkflowUseCase(txManager, txnRepo, auditRepo, idGen, m)
	reportUC := usecase.NewReportUseCase(reportRepo, budgetRepo, accountRepo)
	dimensionUC := usecase.NewDimensionUseCase(dimensionRepo, budgetRepo, accountRepo, idGen)

	// Start outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slogger.Logger),
		Logger:     slogger.Logger,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(postingUC, workflowUC),
		RateHandler:        handler.NewRateHandler(rateUC),
		PeriodHandler:      handler.NewPeriodHandler(periodUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		DimensionHandler:   handler.NewDimensionHandler(dimensionUC),
		AllocationHandler:  handler.NewAllocationHandler(),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		Logger:             log.Logger,
		RateLimit:          cfg.RateLimitRPS,
		RateBurst:          cfg.RateLimitBurst,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
