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
	"github.com/joho/godotenv"

	"github.com/gevapp/gevapp/internal/app"
	"github.com/gevapp/gevapp/internal/auth"
	"github.com/gevapp/gevapp/internal/backup"
	"github.com/gevapp/gevapp/internal/catalog"
	"github.com/gevapp/gevapp/internal/customers"
	"github.com/gevapp/gevapp/internal/observability"
	"github.com/gevapp/gevapp/internal/platform/cache"
	"github.com/gevapp/gevapp/internal/platform/db"
	"github.com/gevapp/gevapp/internal/reports"
	"github.com/gevapp/gevapp/internal/sales"
	"github.com/gevapp/gevapp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	reportsCache := reports.NewCache(redisClient, 10*time.Minute)
	if err := reportsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("reports cache subscribe", slog.Any("error", err))
	}
	reportsRepo := reports.NewRepository(pool)
	reportsService := reports.NewService(reportsRepo, reportsCache, logger)
	reportsHandler := reports.NewHandler(reportsService, logger)

	images, err := catalog.NewImageStore(cfg.UploadDir)
	if err != nil {
		logger.Error("init upload dir", slog.Any("error", err))
		os.Exit(1)
	}
	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, images)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, reportsCache, logger)
	salesHandler := sales.NewHandler(logger, salesService)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, redisClient, tokens, jobsClient, logger, cfg.ResetTokenTTL)
	authHandler := auth.NewHandler(authService, logger)

	backupService := backup.NewService(pool, cfg.BackupDir, logger)
	backupHandler := backup.NewHandler(backupService, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		TokenManager:     tokens,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		CustomersHandler: customersHandler,
		SalesHandler:     salesHandler,
		ReportsHandler:   reportsHandler,
		BackupHandler:    backupHandler,
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
