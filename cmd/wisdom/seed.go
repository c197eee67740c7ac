package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wisdom/internal/db"
	dbFile "github.com/kailas-cloud/wisdom/internal/db/file"
	dbRedis "github.com/kailas-cloud/wisdom/internal/db/redis"
	"github.com/kailas-cloud/wisdom/internal/repository/dataset"
)

// seedCommand validates a file dataset and copies its documents into Redis.
func seedCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir := c.String("dir")
	if dir == "" {
		dir = cfg.Dataset.Dir
	}
	addrs := c.StringSlice("redis-addr")
	if len(addrs) == 0 {
		addrs = cfg.Dataset.Addrs
	}

	src, err := dbFile.NewStore(dbFile.Config{Dir: dir})
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	dst, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:     addrs,
		Password:  cfg.Dataset.Password,
		KeyPrefix: cfg.Dataset.KeyPrefix,
	})
	if err != nil {
		return fmt.Errorf("open target: %w", err)
	}
	defer dst.Close()

	n, err := seed(context.Background(), src, dst, logger)
	if err != nil {
		return err
	}
	logger.Info("Seed complete", zap.String("dir", dir), zap.Int("databases", n))
	return nil
}

// seedSource is a dataset that can enumerate its databases.
type seedSource interface {
	db.DocumentReader
	Databases() ([]string, error)
}

// seed copies every document from src to dst. Documents are decoded first
// so a corrupt dataset is never written. Returns the number of record
// documents copied.
func seed(ctx context.Context, src seedSource, dst db.DocumentWriter, logger *zap.Logger) (int, error) {
	meta, err := src.ReadMetadata(ctx)
	if err != nil {
		return 0, fmt.Errorf("read metadata: %w", err)
	}
	if _, err := dataset.DecodeCatalog(meta); err != nil {
		return 0, fmt.Errorf("validate metadata: %w", err)
	}

	dbs, err := src.Databases()
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	docs := make(map[string][]byte, len(dbs))
	for _, name := range dbs {
		data, err := src.ReadRecords(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("read records of %s: %w", name, err)
		}
		recs, err := dataset.DecodeRecords(data)
		if err != nil {
			return 0, fmt.Errorf("validate records of %s: %w", name, err)
		}
		docs[name] = data
		logger.Info("Validated records", zap.String("database", name), zap.Int("records", len(recs)))
	}

	if err := dst.WriteMetadata(ctx, meta); err != nil {
		return 0, fmt.Errorf("write metadata: %w", err)
	}
	for _, name := range dbs {
		if err := dst.WriteRecords(ctx, name, docs[name]); err != nil {
			return 0, fmt.Errorf("write records of %s: %w", name, err)
		}
	}
	return len(dbs), nil
}
