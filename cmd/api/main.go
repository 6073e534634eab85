// Package main is the entry point for the tour booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/tourbook/internal/checkout"
	"github.com/pkordes/tourbook/internal/config"
	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/handler"
	"github.com/pkordes/tourbook/internal/i18n"
	"github.com/pkordes/tourbook/internal/itinerary"
	"github.com/pkordes/tourbook/internal/middleware"
	"github.com/pkordes/tourbook/internal/repo"
	"github.com/pkordes/tourbook/internal/service"
	"github.com/pkordes/tourbook/migrations"
)

// sweepInterval is how often idle sessions and rate limiter buckets are dropped.
const sweepInterval = 5 * time.Minute

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// ctx lives as long as the process. Cancelling it stops the background
	// workers; the mirror drains its pending snapshots on the way out.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(ctx, pool); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// --- Itinerary persistence --------------------------------------------
	persister, closePersister, err := newPersister(ctx, cfg, pool)
	if err != nil {
		slog.Error("failed to set up itinerary persistence", "backend", cfg.PersistenceBackend, "error", err)
		os.Exit(1)
	}
	defer closePersister()
	slog.Info("itinerary persistence ready", "backend", cfg.PersistenceBackend)

	mirror := itinerary.NewMirror(persister, logger)
	mirrorDone := make(chan struct{})
	go func() {
		mirror.Run(ctx)
		close(mirrorDone)
	}()

	sessions := itinerary.NewSessions(mirror, mirror, logger, cfg.SessionTTL)
	go sessions.Run(ctx, sweepInterval)

	// --- Services ---------------------------------------------------------
	labels, err := checkout.LoadLabels(cfg.DefaultLocale)
	if err != nil {
		slog.Error("failed to load checkout labels", "error", err)
		os.Exit(1)
	}

	tourRepo := repo.NewTourRepo(pool)
	srv := handler.NewServer(
		service.NewTourService(tourRepo, cfg.DefaultLocale, logger),
		service.NewComboService(repo.NewComboRepo(pool), cfg.DefaultLocale, logger),
		service.NewPostService(repo.NewPostRepo(pool), cfg.DefaultLocale, logger),
		service.NewItineraryService(sessions, tourRepo, labels, service.CheckoutConfig{
			Host:      cfg.WhatsAppHost,
			Recipient: cfg.WhatsAppNumber,
		}, cfg.DefaultLocale, logger),
		service.NewExportService(sessions),
		cfg.DefaultLocale,
		logger,
	)

	limiter := middleware.NewRateLimiter(cfg.CheckoutRatePerMin, logger)
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Sweep()
			}
		}
	}()

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit → locale → session.
	// RealIP must run before the checkout rate limiter, which keys on RemoteAddr.
	// Locale and session run for every route so each response carries
	// Content-Language and the visitor keeps one itinerary cookie.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewLocaleHandler(i18n.NewNegotiator(domain.SupportedLocales, cfg.DefaultLocale)))
	r.Use(middleware.NewSessionHandler(cfg.CookieSecure))

	r.Mount("/", srv.Routes(limiter.Limit))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	// No request can mutate an itinerary any more; drain the mirror.
	cancel()
	select {
	case <-mirrorDone:
		slog.Info("itinerary snapshots flushed", "pending", mirror.Pending())
	case <-shutdownCtx.Done():
		slog.Warn("itinerary flush timed out", "pending", mirror.Pending())
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations through a database/sql handle
// borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", len(results))
	return nil
}

// newPersister returns the itinerary snapshot backend selected by config and
// a func releasing its resources.
func newPersister(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (itinerary.Persister, func(), error) {
	switch cfg.PersistenceBackend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return repo.NewRedisSnapshotStore(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }, nil
	case config.BackendMemory:
		slog.Warn("itinerary snapshots are kept in memory and lost on restart")
		return itinerary.NewMemoryPersister(), func() {}, nil
	default:
		return repo.NewSnapshotStore(pool), func() {}, nil
	}
}
