// Package app wires configuration into stores and servers for the service
// binaries.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cafe-tab/config"
	"cafe-tab/internal/platform/logger"
	"cafe-tab/internal/projection"
	"cafe-tab/internal/service"
	"cafe-tab/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// OpenEventStore returns the configured event store and a func releasing it.
func OpenEventStore(ctx context.Context, cfg config.Config, log *logger.Logger) (service.EventStore, func()) {
	if cfg.EventStore == config.StoreMemory {
		log.Warn("using in-memory event store; events are lost on restart")
		return storage.NewMemoryEventStore(), func() {}
	}

	db := config.MustInitPostgres(cfg.Postgres, log)
	store := storage.NewPostgresEventStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("failed to create event table", "error", err)
	}
	return store, func() { db.Close() }
}

// OpenViews returns the projected views backed by the configured view store.
func OpenViews(cfg config.Config, log *logger.Logger) (projection.Views, func()) {
	if cfg.ViewStore == config.StoreMemory {
		return storage.NewMemoryViews(), func() {}
	}
	client := config.MustInitRedis(cfg.Redis, log)
	return storage.NewRedisViews(client), func() { client.Close() }
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
