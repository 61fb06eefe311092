// Command server runs the query gateway HTTP server.
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

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"omopgate/internal/api"
	"omopgate/internal/app"
	"omopgate/internal/config"
	"omopgate/internal/engine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	duckDB, err := engine.OpenReadOnly(cfg.DataDBPath)
	if err != nil {
		return fmt.Errorf("open data store: %w", err)
	}
	defer duckDB.Close() //nolint:errcheck

	application, err := app.New(app.Deps{Cfg: cfg, DuckDB: duckDB, Logger: logger})
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		return fmt.Errorf("start background jobs: %w", err)
	}

	handler := api.NewHandler(
		application.Services.Query,
		application.Gateway,
		application.Services.Catalog,
		application.Services.Dictionary,
		application.Services.Report,
		logger,
	)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gateway listening", "addr", cfg.ListenAddr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
