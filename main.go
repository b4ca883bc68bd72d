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

	"github.com/stevemurr/media-library/config"
	"github.com/stevemurr/media-library/handler"
	"github.com/stevemurr/media-library/media"
	"github.com/stevemurr/media-library/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.ConfigPathEnv))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.NewLogger(os.Stdout)

	ctx := context.Background()
	adapter, err := store.New(ctx, cfg.StoreBackend, cfg.StoreOptions(logger))
	if err != nil {
		return fmt.Errorf("create store (backend=%s): %w", cfg.StoreBackend, err)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			logger.Warn("close store", slog.Any("error", err))
		}
	}()

	h := handler.New(
		media.NewStore(adapter, media.WithLogger(logger)),
		handler.WithLogger(logger),
		handler.WithAllowedOrigins(cfg.AllowedOrigins),
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Media Library starting",
			slog.String("addr", srv.Addr),
			slog.String("store", cfg.StoreBackend),
			slog.String("data_dir", cfg.DataDir),
			slog.String("version", config.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
