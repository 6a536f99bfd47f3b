// Command katalogd serves the construction regulation catalog over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baukatalog/internal/adapters/regulations"
	"baukatalog/internal/blob"
	"baukatalog/internal/core"
	"baukatalog/internal/logging"
	"baukatalog/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "katalogd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	debug := os.Getenv("KATALOG_DEBUG") != ""
	logger, err := logging.New(debug)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := core.OpenPersistentStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	blobStore, err := blob.Open(ctx)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	archive := blob.NewCatalogArchive(blobStore)

	recorder := metrics.NewPrometheusRecorder()
	service := core.NewService(store,
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorder),
		core.WithArchive(archive),
	)

	handler := regulations.NewHandler(service)
	handler.Archive = archive
	mux := http.NewServeMux()
	mux.Handle("/api/v1/regulations", handler)
	mux.Handle("/api/v1/regulations/", handler)
	mux.Handle("/api/v1/catalogs", handler)
	mux.Handle("/api/v1/catalogs/", handler)
	mux.Handle("/metrics", recorder.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := os.Getenv("KATALOG_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("katalogd listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("katalogd stopped")
	return nil
}
