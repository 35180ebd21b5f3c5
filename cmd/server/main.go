package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ctacte/internal/adapter/http"
	"github.com/iho/ctacte/internal/adapter/http/handler"
	"github.com/iho/ctacte/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/ctacte/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ctacte/internal/adapter/repository/redis"
	"github.com/iho/ctacte/internal/infrastructure/config"
	"github.com/iho/ctacte/internal/infrastructure/eventpublisher"
	"github.com/iho/ctacte/internal/infrastructure/logger"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
	"github.com/iho/ctacte/internal/infrastructure/postgres"
	"github.com/iho/ctacte/internal/infrastructure/redis"
	"github.com/iho/ctacte/internal/usecase"
)

const (
	streamMaxLen        = 100000
	limiterCleanupEvery = 10 * time.Minute
	limiterMaxIdle      = 30 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	if cfg.RunMigrations {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath).Up(); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:      cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		ConnectTimeout:   cfg.DatabaseTimeout,
		StatementTimeout: cfg.DatabaseStatementTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrierWithConfig(cfg.TxRetries, 0, 0)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	reassignmentRepo := postgresRepo.NewReassignmentRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	// Initialize use cases
	txRunner := usecase.NewTxRunner(txManager, retrier, cfg.TxTimeout)
	orderUC := usecase.NewOrderUseCase(txRunner, orderRepo, customerRepo, idGen)
	confirmationUC := usecase.NewConfirmationUseCase(txRunner, orderRepo, customerRepo, movementRepo, balanceRepo, outboxRepo, idGen, m)
	resolutionUC := usecase.NewResolutionUseCase(txRunner, orderRepo, customerRepo, reassignmentRepo, outboxRepo, idGen, m)
	importUC := usecase.NewImportUseCase(txRunner, orderRepo, customerRepo, outboxRepo, idGen, m, cfg.ImportMaxReportItems)
	balanceUC := usecase.NewBalanceUseCase(txRunner, customerRepo, movementRepo, balanceRepo, outboxRepo, idGen, m)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo, m)
	reportUC := usecase.NewReportUseCase(ledgerRepo, redisRepo.NewCache(redisClient), cfg.ReportCacheTTL, m)

	routerCfg := httpAdapter.RouterConfig{
		OrderHandler:        handler.NewOrderHandler(orderUC),
		ConfirmationHandler: handler.NewConfirmationHandler(confirmationUC),
		ResolutionHandler:   handler.NewResolutionHandler(resolutionUC),
		ImportHandler:       handler.NewImportHandler(importUC),
		BalanceHandler:      handler.NewBalanceHandler(balanceUC),
		ReportHandler:       handler.NewReportHandler(reconciliationUC, reportUC),
		HealthHandler:       handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:    redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:      cfg.IdempotencyTTL,
		Metrics:             m,
		Logger:              appLogger,
		TenantHeader:        cfg.TenantHeader,
		DefaultTenant:       cfg.DefaultTenant,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	if cfg.RateLimitRPS > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	// Create server
	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return appLogger.WithContext(context.Background()) },
	}

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	workersDone := startWorkers(workerCtx, cfg, outboxRepo, redisClient, routerCfg.RateLimiter, m, appLogger)

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		cancelWorkers()
		<-workersDone
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	cancelWorkers()
	<-workersDone

	appLogger.Info().Msg("server stopped")
	return nil
}

// startWorkers launches the background loops and returns a channel closed
// once all of them have stopped.
func startWorkers(
	ctx context.Context,
	cfg *config.Config,
	outboxRepo usecase.OutboxRepository,
	redisClient *goredis.Client,
	limiter *middleware.RateLimiter,
	m *metrics.Metrics,
	appLogger zerolog.Logger,
) <-chan struct{} {
	done := make(chan struct{})
	running := 0
	finished := make(chan struct{})

	if cfg.OutboxEnabled {
		running++
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  newPublisher(cfg.OutboxStream, redisClient, appLogger),
			Logger:     &appLogger,
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxPollInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			defer func() { finished <- struct{}{} }()
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	if limiter != nil {
		running++
		go func() {
			defer func() { finished <- struct{}{} }()
			ticker := time.NewTicker(limiterCleanupEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if removed := limiter.CleanupLimiters(limiterMaxIdle); removed > 0 {
						appLogger.Debug().Int("removed", removed).Msg("rate limiters cleaned up")
					}
				}
			}
		}()
	}

	go func() {
		for i := 0; i < running; i++ {
			<-finished
		}
		close(done)
	}()

	return done
}

// newPublisher streams events to Redis when a stream is configured and logs
// them otherwise.
func newPublisher(stream string, client *goredis.Client, appLogger zerolog.Logger) eventpublisher.Publisher {
	if stream == "" || client == nil {
		return eventpublisher.NewLogPublisher(appLogger)
	}

	return redisRepo.NewStreamPublisher(client, stream, streamMaxLen)
}

func serverAddr(port string) string {
	if port == "" {
		port = "8080"
	}
	if _, _, err := net.SplitHostPort(port); err == nil {
		return port
	}

	return ":" + port
}
