package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/ytsearch/internal/api/handler"
	"github.com/hszk-dev/ytsearch/internal/api/middleware"
	"github.com/hszk-dev/ytsearch/internal/config"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/cache"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/postgres"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/queue"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/sqlite"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/youtube"
	"github.com/hszk-dev/ytsearch/internal/usecase"
)

// historyStore is a history backend that can bootstrap its own schema.
type historyStore interface {
	repository.HistoryRepository
	EnsureSchema(ctx context.Context) error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	readyChecks := make(map[string]handler.Pinger)

	// Video platform
	platform, err := youtube.NewClient(ctx, youtube.Config{
		APIKey:  cfg.YouTube.APIKey,
		Timeout: cfg.YouTube.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create YouTube client: %w", err)
	}

	// Cache store
	var searchCache cache.SearchCache
	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr()))

		searchCache = cache.NewRedisSearchCache(redisClient)
		readyChecks["cache"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	case config.CacheDriverMemory:
		searchCache = cache.NewMemorySearchCache()
		logger.Info("using in-process cache")
	}

	// History store
	var history historyStore
	switch cfg.History.Driver {
	case config.HistoryDriverPostgres:
		pgClient, err := postgres.NewClient(ctx, postgres.ClientConfig{
			DSN:            cfg.Database.DSN(),
			MaxConns:       cfg.Database.MaxConns,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer pgClient.Close()
		logger.Info("connected to PostgreSQL")

		history = postgres.NewHistoryRepository(pgClient.Pool())
		readyChecks["history"] = pgClient
	case config.HistoryDriverSQLite:
		sqliteClient, err := sqlite.NewClient(ctx, cfg.History.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open SQLite: %w", err)
		}
		defer sqliteClient.Close()
		logger.Info("opened SQLite", slog.String("path", cfg.History.SQLitePath))

		history = sqlite.NewHistoryRepository(sqliteClient.DB())
		readyChecks["history"] = sqliteClient
	}

	if err := history.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare history schema: %w", err)
	}

	// Search events
	var publisher repository.EventPublisher
	if cfg.Events.Enabled {
		queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer queueClient.Close()
		logger.Info("connected to RabbitMQ, search events enabled")

		publisher = queueClient
	}

	searchSvc := usecase.NewSearchService(platform, searchCache, history, publisher, usecase.SearchServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	r := setupRouter(logger, handler.NewSearchHandler(searchSvc), readyChecks)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.Int("port", cfg.Server.Port),
			slog.String("cache_driver", cfg.Cache.Driver),
			slog.String("history_driver", cfg.History.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(logger *slog.Logger, searchHandler *handler.SearchHandler, readyChecks map[string]handler.Pinger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready(readyChecks))
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(handler.NotFound)
	r.Route("/api", searchHandler.Routes)

	return r
}
