// Package main is the entry point for the listing relay API server.
//
// It loads configuration, connects the database pool, wires the email
// provider, identity client, listing extractor, and renderer into the
// relay dispatcher, mounts the HTTP routes, and serves until a shutdown
// signal arrives.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"listingrelay/internal/api/handlers"
	"listingrelay/internal/config"
	"listingrelay/internal/core"
	"listingrelay/internal/db"
	"listingrelay/internal/external"
	"listingrelay/internal/listing"
	"listingrelay/internal/notifications/email"
	"listingrelay/internal/relay"
	"listingrelay/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit
// on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("listing relay starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := newDBPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()

	provider, err := external.NewEmailProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating email provider: %w", err)
	}

	identity := external.NewIdentityClient(
		&http.Client{Timeout: 10 * time.Second},
		external.IdentityClientConfig{
			BaseURL: cfg.Identity.BaseURL,
			APIKey:  cfg.Identity.APIKey.Unmask(),
			Logger:  logger,
		},
	)

	extractor := listing.NewPageExtractor(listing.PageExtractorConfig{
		FetchTimeout: cfg.Scraper.FetchTimeout,
		UserAgent:    cfg.Scraper.UserAgent,
		Logger:       logger,
	})

	renderer, err := email.NewRenderer()
	if err != nil {
		return fmt.Errorf("parsing email templates: %w", err)
	}

	logRepo := db.NewEmailLogRepository(pool)

	dispatcher := relay.NewDispatcher(relay.DispatcherConfig{
		Provider:  provider,
		Identity:  identity,
		Extractor: extractor,
		Renderer:  renderer,
		Logs:      logRepo,
		From: types.SenderIdentity{
			Address: cfg.Email.FromAddress,
			Name:    cfg.Email.FromName,
		},
		AdminEmail: cfg.Admin.NotifyEmail,
		Logger:     logger,
	})

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	webhookHandler := handlers.NewWebhookHandler(dispatcher, logger)
	emailLogHandler := handlers.NewEmailLogHandler(logRepo, logger)
	testEmailHandler := handlers.NewTestEmailHandler(extractor, renderer, logger)

	srv.RouteRegistrars = append(srv.RouteRegistrars,
		webhookHandler.RegisterRoutes,
		emailLogHandler.RegisterRoutes,
		testEmailHandler.RegisterRoutes,
	)

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// newDBPool creates the pgx connection pool and verifies connectivity.
func newDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL.Unmask())
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// runHTTPServer starts the server with graceful shutdown on SIGINT/SIGTERM.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
