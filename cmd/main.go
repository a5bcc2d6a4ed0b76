package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"loan-portal/internal/api"
	"loan-portal/internal/batch"
	"loan-portal/internal/config"
	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/customer"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/domain/quote"
	"loan-portal/internal/event"
	"loan-portal/internal/infrastructure/accountclient"
	"loan-portal/internal/infrastructure/database/postgres"
	"loan-portal/internal/infrastructure/kvstore"
	"loan-portal/internal/infrastructure/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	sessionBackendMemory = "memory"
	sessionBackendRedis  = "redis"
)

func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, redisClient := initializeSessionStore(cfg, logger)
	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)
	rabbitMQConn := initializeRabbitMQ(cfg, logger)
	publisher := initializePublisher(rabbitMQConn, cfg, logger)

	services := initializeServices(cfg, store, dbPool, publisher, logger)

	var purgeable batch.ExpiringStore
	if mem, ok := store.(*kvstore.MemoryStore); ok {
		purgeable = mem
	}
	cronScheduler := startBatchJobs(cfg, purgeable, logger)
	router := api.SetupRouter(ctx, services, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

// initializeSessionStore returns the configured store and, for the redis
// backend, the client to close on shutdown.
func initializeSessionStore(cfg *config.Config, logger *slog.Logger) (kvstore.Store, *redis.Client) {
	switch strings.ToLower(cfg.Session.Backend) {
	case sessionBackendRedis:
		rdb := initializeRedisClient(cfg, logger)
		logger.Info("Using Redis session store", "ttl", cfg.Session.TTL)
		return kvstore.NewRedisStore(rdb, cfg.Session.TTL), rdb
	case sessionBackendMemory, "":
		logger.Info("Using in-memory session store", "ttl", cfg.Session.TTL)
		return kvstore.NewMemoryStore(cfg.Session.TTL), nil
	default:
		logger.Error("Unknown session backend", "backend", cfg.Session.Backend)
		os.Exit(1)
		return nil, nil
	}
}

func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	logger.Info("Initializing Redis client...")
	if cfg.Redis.Addr == "" {
		logger.Error("Redis address (addr) is not configured.")
		os.Exit(1)
		return nil
	}

	rdb := kvstore.NewRedisClient(cfg.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status := rdb.Ping(ctx); status.Err() != nil {
		logger.Error("Failed to connect to Redis", "error", status.Err(), "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		os.Exit(1)
		return nil
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		return
	}
	logger.Info("Closing Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client", slog.Any("error", err))
	} else {
		logger.Info("Redis client connection closed.")
	}
}

// initializeDatabase returns nil when no database URL is configured.
func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	if cfg.Database.URL == "" {
		logger.Info("No database configured, account registry disabled")
		return nil
	}
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	if dbPool == nil {
		return
	}
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

// initializeRabbitMQ logs why no connection could be set up; the caller then
// falls back to the log publisher.
func initializeRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	conn, err := setupRabbitMQ(cfg, logger)
	if err != nil {
		logger.Error("RabbitMQ unavailable, domain events will only be logged", slog.Any("error", err))
		return nil
	}
	return conn
}

// setupRabbitMQ returns a nil connection when publishing is disabled.
func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) (*amqp.Connection, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, domain events will only be logged")
		return nil, nil
	}
	if cfg.RabbitMQ.Host == "" {
		return nil, fmt.Errorf("RabbitMQ host is not configured")
	}
	if (cfg.RabbitMQ.Username == "") != (cfg.RabbitMQ.Password == "") {
		return nil, fmt.Errorf("RabbitMQ username and password must be provided together")
	}

	conn, err := connectRabbitMQ(cfg.RabbitMQ.AMQPURL(), logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil, err
	}
	return conn, nil
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn != nil && !rabbitConn.IsClosed() {
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	} else if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
	} else {
		logger.Info("RabbitMQ connection already closed, skipping close.")
	}
}

// initializePublisher falls back to logging events when no broker is
// reachable.
func initializePublisher(rabbitConn *amqp.Connection, cfg *config.Config, logger *slog.Logger) event.EventPublisher {
	if rabbitConn == nil {
		return event.NewLogPublisher(logger)
	}
	publisher, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to set up RabbitMQ publisher, falling back to log publisher", slog.Any("error", err))
		return event.NewLogPublisher(logger)
	}
	return publisher
}

func initializeServices(cfg *config.Config, store kvstore.Store, dbPool *pgxpool.Pool, publisher event.EventPublisher, logger *slog.Logger) api.Services {
	logger.Info("Initializing application components...")
	repo := kvstore.NewSessionRepository(store, logger)

	workflow := application.NewWorkflow(repo, cfg.Application.SubmitDelay, logger)
	services := api.Services{
		Applications: application.NewApplicationService(repo, workflow, quote.DefaultSource, publisher, logger),
	}

	if dbPool != nil {
		userRepo := postgres.NewUserRepository(dbPool, logger)
		services.Accounts = customer.NewAccountService(userRepo, publisher, logger)
	}
	services.Onboarding = onboarding.NewOnboardingService(repo, initializeAccountCreator(cfg, services.Accounts, logger), logger)
	return services
}

func initializeAccountCreator(cfg *config.Config, accounts customer.AccountService, logger *slog.Logger) onboarding.AccountCreator {
	switch {
	case cfg.Account.Endpoint != "":
		logger.Info("Creating accounts through remote registry", "endpoint", cfg.Account.Endpoint)
		return accountclient.New(cfg.Account, logger)
	case accounts != nil:
		logger.Info("Creating accounts in the local users table")
		return accountclient.NewRegistry(accounts, logger)
	default:
		logger.Warn("No account endpoint or database configured, account creation is disabled")
		return accountclient.NewDisabled(logger)
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	shutdownHTTPServer(srv, serverErrors, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)

	logger.Info("Application shutdown process complete.")
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

// startBatchJobs schedules the session purge when the store needs it. The
// scheduler is always started so shutdown handling stays uniform.
func startBatchJobs(cfg *config.Config, store batch.ExpiringStore, logger *slog.Logger) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	if store == nil {
		logger.Info("Session store expires entries itself, purge job not scheduled")
		c.Start()
		return c
	}

	scheduleSpec := cfg.Batch.SessionPurgeSchedule
	if scheduleSpec == "" {
		scheduleSpec = "*/15 * * * *"
		logger.Warn("Session purge schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.SessionPurgeTimeout
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}

	purgeJob := batch.NewSessionPurgeJob(store, logger)
	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "SessionPurge")
		jobLogger.Info("Cron triggered: Running session purge job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := purgeJob.Run(ctx); runErr != nil {
			jobLogger.Error("Session purge job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Session purge job finished successfully.")
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule session purge job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled session purge job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
