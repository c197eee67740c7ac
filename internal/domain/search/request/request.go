// Package request holds validated search requests.
package request

import (
	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/search/filter"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
	"github.com/kailas-cloud/wisdom/internal/domain/search/query"
)

// MaxDatabases is the maximum number of databases per table search.
const MaxDatabases = 64

// Tables is a validated table search.
type Tables struct {
	databases    []string
	query        query.Query
	filters      filter.Filters
	permutations permutation.Map
	picked       filter.Picked
}

// NewTables validates a table search. Database keys are deduplicated in
// request order; at least one is required.
func NewTables(
	databases []string,
	q query.Query,
	f filter.Filters,
	perms permutation.Map,
	picked filter.Picked,
) (Tables, error) {
	dbs := dedupe(databases)
	if len(dbs) == 0 {
		return Tables{}, domain.NewInvalidRequest("at least one database key is required")
	}
	if len(dbs) > MaxDatabases {
		return Tables{}, domain.NewInvalidRequest("too many databases (max %d)", MaxDatabases)
	}
	return Tables{
		databases:    dbs,
		query:        q,
		filters:      f,
		permutations: perms,
		picked:       picked,
	}, nil
}

// Databases returns the deduplicated database keys in request order.
func (r *Tables) Databases() []string { return r.databases }

// Query returns the query tree.
func (r *Tables) Query() query.Query { return r.query }

// Filters returns the table filters.
func (r *Tables) Filters() *filter.Filters { return &r.filters }

// Permutations returns the term variant map.
func (r *Tables) Permutations() permutation.Map { return r.permutations }

// Picked returns the picked-tables allow-list.
func (r *Tables) Picked() filter.Picked { return r.picked }

// Rows is a validated row search within one table.
type Rows struct {
	database     string
	table        string
	query        query.Query
	filters      filter.Filters
	permutations permutation.Map
	picked       filter.Picked
	page         page.Request
}

// NewRows validates a row search. sizeLimit must be in [1, maxPageSize]
// and pageNumber >= 1; a negative startRow is clamped later.
func NewRows(
	database, table string,
	q query.Query,
	f filter.Filters,
	perms permutation.Map,
	picked filter.Picked,
	pg page.Request,
	maxPageSize int,
) (Rows, error) {
	if database == "" {
		return Rows{}, domain.NewInvalidRequest("options.db is required")
	}
	if table == "" {
		return Rows{}, domain.NewInvalidRequest("options.table is required")
	}
	if pg.PageNumber < 1 {
		return Rows{}, domain.NewInvalidRequest("pageNumber must be >= 1")
	}
	if pg.SizeLimit < 1 || (maxPageSize > 0 && pg.SizeLimit > maxPageSize) {
		return Rows{}, domain.NewInvalidRequest("sizeLimit must be between 1 and %d", maxPageSize)
	}
	return Rows{
		database:     database,
		table:        table,
		query:        q,
		filters:      f,
		permutations: perms,
		picked:       picked,
		page:         pg,
	}, nil
}

// Database returns the database key.
func (r *Rows) Database() string { return r.database }

// Table returns the table key.
func (r *Rows) Table() string { return r.table }

// Query returns the query tree.
func (r *Rows) Query() query.Query { return r.query }

// Filters returns the table filters.
func (r *Rows) Filters() *filter.Filters { return &r.filters }

// Permutations returns the term variant map.
func (r *Rows) Permutations() permutation.Map { return r.permutations }

// Picked returns the picked-tables allow-list.
func (r *Rows) Picked() filter.Picked { return r.picked }

// Page returns the paging parameters.
func (r *Rows) Page() page.Request { return r.page }

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
