package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wisdom/internal/repository/dataset"
)

// checkCommand loads the whole dataset once, failing on corrupt documents.
// Databases without a records document are reported, not fatal.
func checkCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(cfg.Dataset)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Dataset.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("dataset source not ready: %w", err)
	}

	cat, err := dataset.LoadCatalog(ctx, store)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog",
		zap.Int("tables", len(cat.Tables())),
		zap.Int("databases", len(cat.Databases())),
		zap.Strings("bdts", cat.TypeTags()),
	)

	records := dataset.NewRecordStore(store, nil, logger)
	missing := 0
	for _, d := range cat.Databases() {
		recs, err := records.Records(ctx, d.ID())
		if err != nil {
			missing++
			logger.Warn("Records unavailable", zap.String("database", d.ID()), zap.Error(err))
			continue
		}
		assigned, _ := cat.Assignment(d.ID())
		logger.Info("Database",
			zap.String("database", d.ID()),
			zap.String("name", d.Name()),
			zap.Int("tables", len(assigned)),
			zap.Int("records", len(recs)),
		)
	}
	if missing > 0 {
		logger.Warn("Some databases have no records", zap.Int("count", missing))
	}
	return nil
}
