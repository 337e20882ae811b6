package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/backoffice/treasury/internal/adapter/http"
	"github.com/backoffice/treasury/internal/adapter/http/handler"
	postgresRepo "github.com/backoffice/treasury/internal/adapter/repository/postgres"
	redisRepo "github.com/backoffice/treasury/internal/adapter/repository/redis"
	redisdriver "github.com/redis/go-redis/v9"

	"github.com/backoffice/treasury/internal/infrastructure/config"
	"github.com/backoffice/treasury/internal/infrastructure/logger"
	"github.com/backoffice/treasury/internal/infrastructure/postgres"
	"github.com/backoffice/treasury/internal/infrastructure/redis"
	"github.com/backoffice/treasury/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	var redisClient *redisdriver.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		appLogger.Info().Msg("connected to redis")
	}

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	fixedRepo := postgresRepo.NewFixedExpenseRepository(pool)
	employeeRepo := postgresRepo.NewEmployeeRepository(pool)
	payrollRepo := postgresRepo.NewPayrollRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	// Use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, ledgerRepo, idGen)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, entryRepo, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, accountRepo, entryRepo, expenseRepo, categoryRepo, idGen)
	scheduleUC := usecase.NewScheduleUseCase(txManager, accountRepo, entryRepo, fixedRepo, idGen)
	payrollUC := usecase.NewPayrollUseCase(txManager, accountRepo, entryRepo, employeeRepo, payrollRepo, idGen)
	reconcileUC := usecase.NewReconciliationUseCase(txManager, accountRepo, entryRepo, retrier, idGen)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, idGen)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC),
		EntryHandler:          handler.NewEntryHandler(ledgerUC),
		TransferHandler:       handler.NewTransferHandler(transferUC),
		ExpenseHandler:        handler.NewExpenseHandler(expenseUC),
		ScheduleHandler:       handler.NewScheduleHandler(scheduleUC),
		PayrollHandler:        handler.NewPayrollHandler(payrollUC),
		CategoryHandler:       handler.NewCategoryHandler(categoryUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconcileUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Logger:                appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
