package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shoplite/shoplite/internal/app"
	"github.com/shoplite/shoplite/internal/catalog"
	"github.com/shoplite/shoplite/internal/customers"
	"github.com/shoplite/shoplite/internal/observability"
	"github.com/shoplite/shoplite/internal/platform/cache"
	"github.com/shoplite/shoplite/internal/platform/db"
	"github.com/shoplite/shoplite/internal/repairs"
	"github.com/shoplite/shoplite/internal/shared"
	"github.com/shoplite/shoplite/internal/stock"
	"github.com/shoplite/shoplite/internal/transactions"
	"github.com/shoplite/shoplite/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, diagnostics cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	catalogHandler := catalog.NewHandler(logger, catalogService)

	customersService := customers.NewService(customers.NewRepository(pool))
	customersHandler := customers.NewHandler(logger, customersService)

	transactionsService := transactions.NewService(transactions.NewRepository(pool), auditLogger, logger)
	transactionsHandler := transactions.NewHandler(logger, transactionsService)

	repairsService := repairs.NewService(repairs.NewRepository(pool), auditLogger, logger)
	repairsHandler := repairs.NewHandler(logger, repairsService)

	diagnosticsCache := stock.NewDiagnosticsCache(redisClient, cfg.StockCacheTTL, logger)
	stockService := stock.NewService(stock.NewRepository(pool), diagnosticsCache, auditLogger, metrics, logger, stock.ServiceConfig{
		BulkWorkers: cfg.ReconcileWorkers,
	})
	guard := app.BearerAuth(logger, cfg.AdminTokenHash)
	if guard == nil && cfg.IsProduction() {
		logger.Warn("reconcile endpoints are unguarded")
	}
	stockHandler := stock.NewHandler(logger, stockService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, guard, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		CatalogHandler:      catalogHandler,
		CustomersHandler:    customersHandler,
		TransactionsHandler: transactionsHandler,
		RepairsHandler:      repairsHandler,
		StockHandler:        stockHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
