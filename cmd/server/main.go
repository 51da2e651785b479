package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/PropCompare/internal/catalog"
	"github.com/JonMunkholm/PropCompare/internal/config"
	"github.com/JonMunkholm/PropCompare/internal/core"
	"github.com/JonMunkholm/PropCompare/internal/logging"
	"github.com/JonMunkholm/PropCompare/internal/store"
	"github.com/JonMunkholm/PropCompare/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"catalog", cfg.Catalog.BaseURL,
		"session_ttl", cfg.Session.TTL,
		"activity_log", cfg.Database.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	client, err := catalog.New(cfg.Catalog.BaseURL, catalog.Options{
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		CacheTTL:          cfg.Catalog.CacheTTL,
	})
	if err != nil {
		slog.Error("failed to create catalog client", "error", err)
		os.Exit(1)
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	// The activity trail is optional: without a database sessions record
	// nothing and /api/activity is not served.
	var (
		recorder core.ActivityRecorder = core.NopRecorder{}
		activity web.ActivityLister
	)
	if cfg.Database.Enabled() {
		pool, err := connectDatabase(jobCtx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		activityStore := store.NewActivityStore(pool)
		if err := activityStore.EnsureSchema(jobCtx); err != nil {
			slog.Error("failed to prepare activity schema", "error", err)
			os.Exit(1)
		}
		recorder, activity = activityStore, activityStore

		go store.StartPruneScheduler(jobCtx, activityStore, store.PruneConfig{
			RetentionDays: cfg.Activity.RetentionDays,
			Interval:      cfg.Activity.PruneInterval,
		})
	}

	sessions := core.NewSessionManager(client, recorder, cfg.Session.TTL, cfg.Session.CleanupInterval)
	server := web.NewServer(sessions, activity, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
