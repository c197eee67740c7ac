package wisdom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wisdom/internal/db"
	dbFile "github.com/kailas-cloud/wisdom/internal/db/file"
	dbRedis "github.com/kailas-cloud/wisdom/internal/db/redis"
	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
	"github.com/kailas-cloud/wisdom/internal/domain/search/request"
	"github.com/kailas-cloud/wisdom/internal/domain/search/result"
	"github.com/kailas-cloud/wisdom/internal/repository/dataset"
	cataloguc "github.com/kailas-cloud/wisdom/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/wisdom/internal/usecase/health"
	permutationuc "github.com/kailas-cloud/wisdom/internal/usecase/permutation"
	searchuc "github.com/kailas-cloud/wisdom/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	SearchTables(ctx context.Context, req *request.Tables) (result.Tables, error)
	SearchRows(ctx context.Context, req *request.Rows) (result.Rows, error)
}

type catalogUseCase interface {
	Catalog() cataloguc.Listing
	BDTs() []string
}

type permutationUseCase interface {
	Expand(terms []string, strategy string, params map[string]any) (permutation.Map, error)
}

// Client is the wisdom SDK entry point.
type Client struct {
	store     db.Store
	pool      *ants.Pool
	searchSvc searchUseCase
	catSvc    catalogUseCase
	permSvc   permutationUseCase
	healthSvc healthUseCase
	paging    pagingConfig
	obs       *observer
}

type pagingConfig struct {
	defaultSize int
	maxSize     int
}

// New opens the dataset and loads its catalog.
// The provided context is used for the readiness check and catalog load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("wisdom: dataset source required (use WithDirectory or WithRedis)")
	}
	if cfg.defaultPageSize < 1 || cfg.defaultPageSize > cfg.maxPageSize {
		return nil, fmt.Errorf("wisdom: invalid page sizes %d/%d", cfg.defaultPageSize, cfg.maxPageSize)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("wisdom: dataset not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "file":
		s, err := dbFile.NewStore(dbFile.Config{Dir: cfg.dir})
		if err != nil {
			return nil, fmt.Errorf("wisdom: create file store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("wisdom: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("wisdom: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	cat, err := dataset.LoadCatalog(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("wisdom: load catalog: %w", err)
	}

	// Пул nil: базы сканируются последовательно
	var pool *ants.Pool
	if cfg.workers > 0 {
		pool, err = ants.NewPool(cfg.workers)
		if err != nil {
			return nil, fmt.Errorf("wisdom: create worker pool: %w", err)
		}
	}

	logger := zap.NewNop()
	records := dataset.NewRecordStore(store, nil, logger)

	return &Client{
		store:     store,
		pool:      pool,
		searchSvc: searchuc.New(cat, records, pool, nil, logger),
		catSvc:    cataloguc.New(cat),
		permSvc:   permutationuc.New(),
		healthSvc: healthuc.New(store, cat),
		paging:    pagingConfig{defaultSize: cfg.defaultPageSize, maxSize: cfg.maxPageSize},
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Release()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks dataset source connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
