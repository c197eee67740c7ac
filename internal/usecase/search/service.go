// Package search evaluates boolean queries over dataset records and
// aggregates the matches into tables, facets and row pages.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/record"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/request"
	"github.com/kailas-cloud/wisdom/internal/domain/search/result"
	"github.com/kailas-cloud/wisdom/internal/logger"
)

// Metric labels for evaluated records.
const (
	kindTables = "tables"
	kindRows   = "rows"
)

// Service runs table and row searches against a loaded catalog.
type Service struct {
	catalog   Catalog
	records   RecordSource
	pool      *ants.Pool
	evaluated *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates a search service. pool fans table searches out per database;
// nil scans databases sequentially. evaluated counts scanned records by
// search kind (may be nil).
func New(
	cat Catalog, records RecordSource, pool *ants.Pool,
	evaluated *prometheus.CounterVec, log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog:   cat,
		records:   records,
		pool:      pool,
		evaluated: evaluated,
		logger:    log,
	}
}

// SearchTables finds the tables with matching records across the requested
// databases. Hits keep database request order, then assignment order
// within a database; filters and picked tables are applied afterwards.
func (s *Service) SearchTables(ctx context.Context, req *request.Tables) (result.Tables, error) {
	for _, db := range req.Databases() {
		if _, ok := s.catalog.Assignment(db); !ok {
			return result.Tables{}, domain.NewDatabaseNotFound(db)
		}
	}

	ev := NewEvaluator(req.Query(), s.catalog, req.Permutations())
	perDB, err := s.scanAll(ctx, req, ev)
	if err != nil {
		return result.Tables{}, err
	}

	hits := make([]result.TableHit, 0)
	for _, dbHits := range perDB {
		for _, h := range dbHits {
			if !req.Filters().Match(h.Table) {
				continue
			}
			if req.Picked().Active() && !req.Picked().Allows(h.DBID, h.Table.ID()) {
				continue
			}
			hits = append(hits, h)
		}
	}

	logger.FromContext(ctx).Debug("table search",
		zap.Strings("databases", req.Databases()),
		zap.Int("tables", len(hits)),
	)

	return result.Tables{
		Hits:   hits,
		Facets: BuildFacets(hits),
		Total:  len(hits),
	}, nil
}

// scanAll scans every requested database, preserving request order.
func (s *Service) scanAll(
	ctx context.Context, req *request.Tables, ev *Evaluator,
) ([][]result.TableHit, error) {
	dbs := req.Databases()
	out := make([][]result.TableHit, len(dbs))

	if s.pool == nil || len(dbs) == 1 {
		for i, db := range dbs {
			hits, err := s.scanDatabase(ctx, db, req, ev)
			if err != nil {
				return nil, err
			}
			out[i] = hits
		}
		return out, nil
	}

	errs := make([]error, len(dbs))
	var wg sync.WaitGroup
	for i, db := range dbs {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			out[i], errs[i] = s.scanDatabase(ctx, db, req, ev)
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit scan of %s: %w", db, err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// scanDatabase returns the tables of one database with their weights.
// Without a query every assigned table is returned, weighted by its
// declared row count. With a query only tables owning a matching record
// are returned, weighted by their match count.
func (s *Service) scanDatabase(
	ctx context.Context, db string, req *request.Tables, ev *Evaluator,
) ([]result.TableHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.records.Records(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load records of %s: %w", db, err)
	}

	assigned, _ := s.catalog.Assignment(db)
	dbName := ""
	if d, ok := s.catalog.Database(db); ok {
		dbName = d.Name()
	}

	var (
		ids     []string
		weights map[string]int
	)
	if req.Query().IsEmpty() {
		ids = uniq(assigned)
	} else {
		s.countEvaluated(kindTables, len(records))
		ids, weights = matchCounts(records, ev, assigned)
	}

	hits := make([]result.TableHit, 0, len(ids))
	for _, id := range ids {
		t, ok := s.catalog.Table(id)
		if !ok {
			continue
		}
		w := t.RecordCount()
		if weights != nil {
			w = weights[id]
		}
		hits = append(hits, result.TableHit{Table: t, DBID: db, DBName: dbName, Weight: w})
	}
	return hits, nil
}

// matchCounts counts matching records per table key. Tables come back in
// assignment order, followed by unassigned keys in first-match order.
func matchCounts(records []record.Record, ev *Evaluator, assigned []string) ([]string, map[string]int) {
	counts := make(map[string]int)
	var firstSeen []string
	for _, r := range records {
		key := r.TableKey()
		if key == "" || !ev.Match(r) {
			continue
		}
		if counts[key] == 0 {
			firstSeen = append(firstSeen, key)
		}
		counts[key]++
	}

	ids := make([]string, 0, len(counts))
	placed := make(map[string]struct{}, len(counts))
	for _, id := range assigned {
		if _, dup := placed[id]; dup || counts[id] == 0 {
			continue
		}
		placed[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range firstSeen {
		if _, dup := placed[id]; dup {
			continue
		}
		placed[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, counts
}

// SearchRows returns one page of matching rows of a table, projected onto
// the table's declared columns. A table excluded by selectedTables or the
// picked tables yields an empty page.
func (s *Service) SearchRows(ctx context.Context, req *request.Rows) (result.Rows, error) {
	db, table := req.Database(), req.Table()
	if !s.catalog.IsAssigned(db, table) {
		return result.Rows{}, domain.NewTableNotFound(db, table)
	}
	if !req.Filters().Selects(table) {
		return result.EmptyRows(req.Page()), nil
	}
	if req.Picked().Active() && !req.Picked().Allows(db, table) {
		return result.EmptyRows(req.Page()), nil
	}

	records, err := s.records.Records(ctx, db)
	if err != nil {
		return result.Rows{}, fmt.Errorf("load records of %s: %w", db, err)
	}

	meta, ok := s.catalog.Table(table)
	if !ok {
		return result.Rows{}, domain.NewTableMetadataNotFound(table)
	}

	ev := NewEvaluator(req.Query(), s.catalog, req.Permutations())
	columns := meta.ColumnNames()
	rows, scanned := ProjectRows(records, table, columns, ev)
	s.countEvaluated(kindRows, scanned)

	window, pagination := page.Paginate(rows, req.Page())
	return result.Rows{
		Columns:    columns,
		Rows:       window,
		Pagination: pagination,
	}, nil
}

func (s *Service) countEvaluated(kind string, n int) {
	if s.evaluated == nil || n == 0 {
		return
	}
	s.evaluated.WithLabelValues(kind).Add(float64(n))
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
