// Package main is the entrypoint for the Strato edge router. It classifies
// requests by hostname and forwards them to the origin with routing headers
// attached; it holds no database or cache connections of its own.
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

	mw "github.com/stratocrm/strato/internal/api/middleware"
	"github.com/stratocrm/strato/internal/config"
	"github.com/stratocrm/strato/internal/edge"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("edge failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadEdge()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"base_domain", cfg.Edge.BaseDomain,
		"origin", cfg.Edge.OriginURL,
		"spa_fallback", cfg.Edge.SPAFallback,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proxy := edge.NewProxy(cfg.Edge)

	var handler http.Handler = proxy
	handler = mw.Recovery(handler)
	handler = mw.Logger(handler)

	addr := fmt.Sprintf(":%d", cfg.Edge.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("edge listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("edge error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("edge shutdown: %w", err)
	}

	slog.Info("edge stopped gracefully")
	return nil
}
