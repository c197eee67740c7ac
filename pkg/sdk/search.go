package wisdom

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
	"github.com/kailas-cloud/wisdom/internal/domain/search/request"
)

// TableSearch finds tables with matching records across databases.
type TableSearch struct {
	Databases    []string
	Query        Query
	Filters      Filters
	Permutations map[string][]string
	Picked       []PickedTable
}

// RowSearch pages through the matching records of one table.
// Nil paging fields take defaults: page 1, the configured page size and
// a start row derived from both.
type RowSearch struct {
	Database     string
	Table        string
	Query        Query
	Filters      Filters
	Permutations map[string][]string
	Picked       []PickedTable

	PageNumber *int
	StartRow   *int
	SizeLimit  *int
}

// SearchTables returns the tables whose records match the query.
func (c *Client) SearchTables(ctx context.Context, s TableSearch) (_ TableResults, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_tables", start, err) }()

	req, err := request.NewTables(
		s.Databases, s.Query.q, filtersToDomain(s.Filters),
		permutation.Map(s.Permutations), pickedToDomain(s.Picked),
	)
	if err != nil {
		return TableResults{}, err
	}

	res, err := c.searchSvc.SearchTables(ctx, &req)
	if err != nil {
		return TableResults{}, fmt.Errorf("search tables: %w", err)
	}
	return tablesFromDomain(res), nil
}

// SearchRows returns one page of a table's matching rows.
func (c *Client) SearchRows(ctx context.Context, s RowSearch) (_ RowPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_rows", start, err) }()

	pg := page.NewRequest(s.PageNumber, s.StartRow, s.SizeLimit, c.paging.defaultSize)
	req, err := request.NewRows(
		s.Database, s.Table, s.Query.q, filtersToDomain(s.Filters),
		permutation.Map(s.Permutations), pickedToDomain(s.Picked),
		pg, c.paging.maxSize,
	)
	if err != nil {
		return RowPage{}, err
	}

	res, err := c.searchSvc.SearchRows(ctx, &req)
	if err != nil {
		return RowPage{}, fmt.Errorf("search rows: %w", err)
	}
	return RowPage{
		Columns:    res.Columns,
		Rows:       res.Rows,
		Pagination: paginationFromDomain(res.Pagination),
	}, nil
}

// Expand computes permutation variants for terms. Unknown strategies
// return each term unchanged.
func (c *Client) Expand(terms []string, strategy string, params map[string]any) (_ map[string][]string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("expand", start, err) }()

	m, err := c.permSvc.Expand(terms, strategy, params)
	if err != nil {
		return nil, err
	}
	return m, nil
}
