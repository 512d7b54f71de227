package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/FightFi/Sportsbook/internal/config"
	"github.com/FightFi/Sportsbook/internal/database"
	"github.com/FightFi/Sportsbook/internal/database/cached"
	"github.com/FightFi/Sportsbook/internal/database/memory"
	"github.com/FightFi/Sportsbook/internal/database/postgres"
	"github.com/FightFi/Sportsbook/internal/event"
	"github.com/FightFi/Sportsbook/internal/eventlog"
	"github.com/FightFi/Sportsbook/internal/ledger"
	"github.com/FightFi/Sportsbook/internal/metrics"
	"github.com/FightFi/Sportsbook/internal/repository"
	"github.com/FightFi/Sportsbook/internal/scheduler"
	"github.com/FightFi/Sportsbook/internal/server"
	"github.com/FightFi/Sportsbook/internal/sportsbook"
	"github.com/FightFi/Sportsbook/internal/worker"
)

const (
	dbMaxConnections = 20
	dbMaxIdleTime    = 5 * time.Minute
	dbMaxLifetime    = 30 * time.Minute

	cacheTTL        = 30 * time.Second
	shutdownTimeout = 15 * time.Second

	workerCount          = 2
	workerQueueSize      = 16
	eventCleanupInterval = 24 * time.Hour
	eventRetentionDays   = 90

	// Dev-mode ledger funding so the operator can seed prize pools without a
	// real escrow backend.
	devOperatorFunds = 1_000_000_000
	devAsset         = "USDF"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		dbPool          *pgxpool.Pool
		repo            repository.Sportsbook
		ledg            ledger.Ledger
		eventLogService eventlog.Service
	)

	if cfg.DevMode {
		slog.Info("Running in dev mode with in-memory storage")
		repo = memory.NewSportsbookRepository()
		memLedger := ledger.NewMemoryLedger()
		memLedger.Mint(cfg.Operator, devAsset, devOperatorFunds)
		ledg = memLedger
	} else {
		dbPool, err = database.NewPool(ctx, cfg.GetDBConnString(), dbMaxConnections, dbMaxIdleTime, dbMaxLifetime)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := database.Migrate(ctx, dbPool); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}

		repo = postgres.NewSportsbookRepository(dbPool)
		ledg = ledger.NewPostgresLedger(dbPool)
		eventLogService = eventlog.NewService(postgres.NewEventLogRepository(dbPool))
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		repo = cached.NewSportsbookRepository(repo, rdb, cacheTTL)
		slog.Info("Read-through cache enabled", "addr", cfg.RedisAddr)
	}

	// Event plumbing: every settlement operation publishes through the
	// resilient wrapper; failed deliveries retry and finally land in the
	// dead-letter file.
	bus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(bus, event.ResilientConfig{
		MaxRetries:     event.RetryMaxAttempts,
		RetryDelay:     event.RetryInitialDelaySeconds * time.Second,
		DeadLetterPath: cfg.DeadLetterPath,
	})

	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(publisher); err != nil {
		slog.Error("Failed to register metrics collector", "error", err)
		os.Exit(1)
	}
	if eventLogService != nil {
		if err := eventLogService.Subscribe(publisher); err != nil {
			slog.Error("Failed to subscribe event logger", "error", err)
			os.Exit(1)
		}
	}

	// Background jobs: prune the audit log on a fixed schedule.
	if eventLogService != nil {
		jobPool := worker.NewPool(workerCount, workerQueueSize)
		jobPool.Start()
		defer jobPool.Stop()

		sched := scheduler.New(jobPool)
		sched.Schedule(eventCleanupInterval, eventlog.NewCleanupJob(eventLogService, eventRetentionDays))
		defer sched.Stop()
	}

	service := sportsbook.NewService(repo, ledg, publisher, cfg.Operator, cfg.ClaimWindow)

	var pool database.Pool
	if dbPool != nil {
		pool = dbPool
	}
	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, pool, service, eventLogService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
