package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sarrafx/recon_backend/internal/adapters/external"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/core/services"
	"github.com/sarrafx/recon_backend/internal/handlers"
	"github.com/sarrafx/recon_backend/internal/middleware"
	"github.com/sarrafx/recon_backend/internal/platform/config"
	"github.com/sarrafx/recon_backend/internal/queue"
	"github.com/sarrafx/recon_backend/internal/repositories/database/pgsql"
	"github.com/sarrafx/recon_backend/internal/worker"
	"github.com/sarrafx/recon_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories and services
	repos := pgsql.NewRepositoryProvider(dbPool)

	var externalReconciler portssvc.ExternalReconciler
	if cfg.ExternalProviderURL != "" {
		externalReconciler = external.NewHTTPReconciler(external.Config{
			Name:   cfg.ExternalProviderName,
			URL:    cfg.ExternalProviderURL,
			APIKey: cfg.ExternalProviderAPIKey,
		})
		logger.Info("External reconciler configured", slog.String("provider", cfg.ExternalProviderName))
	}

	serviceContainer := services.NewServiceContainer(&repos, externalReconciler, nil, cfg.ExternalCallTimeout)

	// Queue and background worker
	redisQueue, err := queue.New(&queue.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisQueue.Close()

	workerOpts := portssvc.DefaultReconcileOptions()
	workerOpts.IncludeExternalReconciliation = cfg.IncludeExternalReconciliation
	reconWorker := worker.New(redisQueue, serviceContainer.Reconciliation, logger, worker.Config{
		Concurrency:    cfg.WorkerConcurrency,
		RetryAttempts:  cfg.RetryAttempts,
		RetryBaseDelay: cfg.RetryBaseDelay,
		Options:        workerOpts,
	})

	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workerWG sync.WaitGroup
	workerWG.Add(1)
	go func() {
		defer workerWG.Done()
		reconWorker.Run(workerCtx)
	}()

	// HTTP server
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, &repos, redisQueue)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the worker so
	// in-flight reconciliations are nacked back to the queue.
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()
	logger.Info("Shutdown signal received")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(timeoutCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	stopWorker()
	workerWG.Wait()
	logger.Info("Shutdown complete")
}

// runMigrations applies all pending migrations from the migrations directory.
// It uses a standalone database/sql connection so the main pool stays pgx-native.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
