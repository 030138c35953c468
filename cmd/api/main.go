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

	"taskboard-backend/internal/analytics"
	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/config"
	"taskboard-backend/internal/db"
	"taskboard-backend/internal/otel"
	"taskboard-backend/internal/server"
	"taskboard-backend/internal/tasks"
	"taskboard-backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "taskboard-api:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	provider, err := otel.Init(ctx, cfg.OTel)
	if err != nil {
		return fmt.Errorf("init otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", "error", err)
		}
	}()
	metrics, err := otel.NewMetrics(provider.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	dialect := cfg.Dialect()
	database, err := db.Connect(ctx, dialect, cfg.ConnString())
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer database.Close()
	logger.Info("connected to database", "driver", string(dialect))

	if err := db.Migrate(ctx, database, dialect); err != nil {
		return err
	}

	store := tasks.Instrument(tasks.NewSQLStore(database, dialect), provider.Tracer, metrics.StoreOps)
	events := analytics.NewSQLRecorder(database, dialect)

	authMW := auth.New([]byte(cfg.AuthSecret))
	if authMW.Enabled() {
		logger.Info("service token required on /tasks routes")
	}
	if cfg.StrictErrors {
		logger.Info("strict error mapping enabled (400/404)")
	}

	handler := server.New(server.Deps{
		Tasks:           tasks.New(store, events, logger, cfg.StrictErrors),
		Events:          events,
		Auth:            authMW,
		Logger:          logger,
		Tracer:          provider.Tracer,
		RequestDuration: metrics.RequestDuration,
		CORSOrigins:     cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API server is running", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
