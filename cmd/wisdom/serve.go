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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wisdom/internal/config"
	"github.com/kailas-cloud/wisdom/internal/db"
	"github.com/kailas-cloud/wisdom/internal/metrics"
	"github.com/kailas-cloud/wisdom/internal/repository/dataset"
	chiTransport "github.com/kailas-cloud/wisdom/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/wisdom/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/wisdom/internal/usecase/health"
	permutationuc "github.com/kailas-cloud/wisdom/internal/usecase/permutation"
	searchuc "github.com/kailas-cloud/wisdom/internal/usecase/search"
	"github.com/kailas-cloud/wisdom/internal/version"
)

func serveCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting wisdom API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", c.String("env")),
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("dataset_driver", cfg.Dataset.Driver),
	)

	store, err := openStore(cfg.Dataset)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Dataset.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("dataset source not ready: %w", err)
	}
	logger.Info("Dataset source ready")

	metrics.RegisterSearchMetrics()

	handler, cleanup, err := buildRouter(ctx, cfg, store, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// buildRouter loads the catalog and wires services, middleware and routes.
// cleanup releases the search worker pool.
func buildRouter(
	ctx context.Context, cfg config.Config, store db.Store, logger *zap.Logger,
) (http.Handler, func(), error) {
	cat, err := dataset.LoadCatalog(ctx, store)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	metrics.DatasetTables.Set(float64(len(cat.Tables())))
	logger.Info("Catalog loaded",
		zap.Int("tables", len(cat.Tables())),
		zap.Int("databases", len(cat.Databases())),
	)

	pool, err := ants.NewPool(cfg.Search.Workers)
	if err != nil {
		return nil, nil, fmt.Errorf("create search pool: %w", err)
	}

	records := dataset.NewRecordStore(store, metrics.DatasetRecordsLoadedTotal, logger)
	server := chiTransport.NewServer(
		searchuc.New(cat, records, pool, metrics.SearchRecordsEvaluatedTotal, logger),
		cataloguc.New(cat),
		permutationuc.New(),
		healthuc.New(store, cat),
		chiTransport.Paging{DefaultSize: cfg.Search.DefaultPageSize, MaxSize: cfg.Search.MaxPageSize},
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.Use(metrics.Middleware())
	server.Routes(r)

	return r, pool.Release, nil
}
