package search

import (
	"context"
	"errors"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
	"github.com/kailas-cloud/wisdom/internal/domain/search/filter"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
	"github.com/kailas-cloud/wisdom/internal/domain/search/query"
	"github.com/kailas-cloud/wisdom/internal/domain/search/request"
	"github.com/kailas-cloud/wisdom/internal/domain/search/result"
)

func mexico() query.Query {
	return query.Sequence(query.NewClause("Mexico", ""))
}

func tablesReq(
	t *testing.T, dbs []string, q query.Query, f filter.Filters,
	perms permutation.Map, picked filter.Picked,
) *request.Tables {
	t.Helper()
	req, err := request.NewTables(dbs, q, f, perms, picked)
	require.NoError(t, err)
	return &req
}

func rowsReq(t *testing.T, db, table string, q query.Query, f filter.Filters, picked filter.Picked, pg page.Request) *request.Rows {
	t.Helper()
	req, err := request.NewRows(db, table, q, f, nil, picked, pg, 1000)
	require.NoError(t, err)
	return &req
}

type hitKey struct{ db, table string }

func keys(hits []result.TableHit) []hitKey {
	out := make([]hitKey, len(hits))
	for i, h := range hits {
		out[i] = hitKey{h.DBID, h.Table.ID()}
	}
	return out
}

func newService(records *mockRecords) *Service {
	return New(testCatalog(), records, nil, nil, nil)
}

func TestSearchTables_QueryWeightsAndFacets(t *testing.T) {
	svc := newService(testRecords())

	res, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1"}, mexico(), filter.Filters{}, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, []hitKey{{"db1", "t1"}, {"db1", "t2"}}, keys(res.Hits))
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Hits[0].Weight)
	assert.Equal(t, 1, res.Hits[1].Weight)
	assert.Equal(t, "Census", res.Hits[0].DBName)

	assert.Equal(t, map[string]int{"demographics": 2, "economy": 1}, res.Facets.Categories)
	assert.Equal(t, map[string]int{"MX": 2, "US": 1}, res.Facets.Regions)
	assert.Equal(t, map[string]int{"Population": 2, "GDP": 1}, res.Facets.TableNames)
	assert.Equal(t, map[string]int{"2020": 2, "2019": 1}, res.Facets.TableYears)
}

func TestSearchTables_UnassignedMatchesFollowAssigned(t *testing.T) {
	svc := newService(testRecords())

	res, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db2"}, mexico(), filter.Filters{}, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, []hitKey{{"db2", "t3"}, {"db2", "t1"}}, keys(res.Hits))
}

func TestSearchTables_MultiDatabaseOrder(t *testing.T) {
	pool, err := ants.NewPool(2)
	require.NoError(t, err)
	defer pool.Release()

	records := testRecords()
	svc := New(testCatalog(), records, pool, nil, nil)

	res, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db2", "db1", "db2"}, mexico(), filter.Filters{}, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, []hitKey{
		{"db2", "t3"}, {"db2", "t1"}, {"db1", "t1"}, {"db1", "t2"},
	}, keys(res.Hits))
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 3, res.Facets.TableNames["Population"])
	assert.Equal(t, 1, records.calls["db2"])
}

func TestSearchTables_NoQueryUsesRecordCounts(t *testing.T) {
	records := testRecords()
	svc := newService(records)

	res, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1"}, query.All(), filter.Filters{}, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, []hitKey{{"db1", "t1"}, {"db1", "t2"}}, keys(res.Hits))
	assert.Equal(t, map[string]int{"demographics": 3, "economy": 2}, res.Facets.Categories)
	assert.Equal(t, 1, records.calls["db1"], "records are loaded even without a query")
}

func TestSearchTables_ZeroWeightCountsOnce(t *testing.T) {
	svc := newService(testRecords())

	for _, q := range []query.Query{query.All(), query.Text(""), query.Sequence()} {
		res, err := svc.SearchTables(context.Background(),
			tablesReq(t, []string{"db2"}, q, filter.Filters{}, nil, nil))
		require.NoError(t, err)

		assert.Equal(t, []hitKey{{"db2", "t3"}, {"db2", "t4"}}, keys(res.Hits))
		assert.Equal(t, 0, res.Hits[1].Weight)
		assert.Equal(t, map[string]int{"MX": 1, "CA": 1}, res.Facets.Regions)
	}
}

func TestSearchTables_TypeTagClause(t *testing.T) {
	svc := newService(testRecords())
	q := query.Sequence(query.NewClause("mexico", "country"))

	res, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1", "db2"}, q, filter.Filters{}, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, []hitKey{{"db1", "t1"}, {"db2", "t3"}, {"db2", "t1"}}, keys(res.Hits))
	assert.Equal(t, 2, res.Hits[0].Weight)
}

func TestSearchTables_PermutationsWidenMatches(t *testing.T) {
	svc := newService(testRecords())
	q := query.Sequence(query.NewClause("ocixem", ""))

	res, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1"}, q, filter.Filters{}, nil, nil))
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	perms := permutation.Expand([]string{"ocixem"}, permutation.Reverse, nil)
	res, err = svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1"}, q, filter.Filters{}, perms, nil))
	require.NoError(t, err)
	assert.Equal(t, []hitKey{{"db1", "t1"}, {"db1", "t2"}}, keys(res.Hits))
}

func TestSearchTables_Picked(t *testing.T) {
	tests := []struct {
		name   string
		picked filter.Picked
		want   []hitKey
	}{
		{"database scoped", filter.Picked{{DB: "db1", Table: "t2"}}, []hitKey{{"db1", "t2"}}},
		{"wrong database", filter.Picked{{DB: "db2", Table: "t2"}}, []hitKey{}},
		{"any database", filter.Picked{{Table: "t1"}}, []hitKey{{"db2", "t1"}, {"db1", "t1"}}},
		{"no usable entries", filter.Picked{{DB: "db1"}}, []hitKey{}},
		{"inactive", nil, []hitKey{{"db2", "t3"}, {"db2", "t1"}, {"db1", "t1"}, {"db1", "t2"}}},
	}

	svc := newService(testRecords())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.SearchTables(context.Background(),
				tablesReq(t, []string{"db2", "db1"}, mexico(), filter.Filters{}, nil, tc.picked))
			require.NoError(t, err)
			assert.Equal(t, tc.want, keys(res.Hits))
			assert.Equal(t, len(tc.want), res.Total)
		})
	}
}

func TestSearchTables_FiltersApplyBeforeFacets(t *testing.T) {
	svc := newService(testRecords())
	f := filter.Filters{Year: catalog.NumericYear(2021)}

	res, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db2"}, query.All(), f, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, []hitKey{{"db2", "t3"}}, keys(res.Hits))
	assert.Equal(t, map[string]int{"2021": 1}, res.Facets.TableYears)
}

func TestSearchTables_UnknownDatabase(t *testing.T) {
	records := testRecords()
	svc := newService(records)

	_, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1", "db9"}, mexico(), filter.Filters{}, nil, nil))
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "db9")
	assert.Zero(t, records.calls["db1"], "no database is scanned when one key is unknown")
}

func TestSearchTables_RecordLoadFailure(t *testing.T) {
	boom := errors.New("boom")
	svc := newService(&mockRecords{err: boom})

	_, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1"}, mexico(), filter.Filters{}, nil, nil))
	require.ErrorIs(t, err, boom)
}

func TestSearchTables_CountsEvaluatedRecords(t *testing.T) {
	evaluated := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "evaluated"}, []string{"kind"})
	svc := New(testCatalog(), testRecords(), nil, evaluated, nil)

	_, err := svc.SearchTables(context.Background(),
		tablesReq(t, []string{"db1"}, mexico(), filter.Filters{}, nil, nil))
	require.NoError(t, err)

	assert.InDelta(t, 6, testutil.ToFloat64(evaluated.WithLabelValues(kindTables)), 0)
}

func TestSearchRows_ProjectsMatchingRows(t *testing.T) {
	svc := newService(testRecords())

	res, err := svc.SearchRows(context.Background(),
		rowsReq(t, "db1", "t1", mexico(), filter.Filters{}, nil, page.Request{PageNumber: 1, SizeLimit: 20}))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "country"}, res.Columns)
	assert.Equal(t, [][]string{{"Mexico City", "Mexico"}, {"Guadalajara", "Mexico"}}, res.Rows)
	assert.Equal(t, 2, res.Pagination.TotalRecords)
	assert.False(t, res.Pagination.HasMore)
	assert.Nil(t, res.Pagination.NextOffset)
}

func TestSearchRows_NoQueryStringifiesAndScopesToTable(t *testing.T) {
	svc := newService(testRecords())

	res, err := svc.SearchRows(context.Background(),
		rowsReq(t, "db1", "t2", query.All(), filter.Filters{}, nil, page.Request{PageNumber: 1, SizeLimit: 20}))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"North", "10"}, {"Mexico border", "5"}}, res.Rows)

	res, err = svc.SearchRows(context.Background(),
		rowsReq(t, "db2", "t3", query.All(), filter.Filters{}, nil, page.Request{PageNumber: 1, SizeLimit: 20}))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Mexico"}, {"Canada"}}, res.Rows)
}

func TestSearchRows_Paging(t *testing.T) {
	svc := newService(testRecords())

	tests := []struct {
		name     string
		pg       page.Request
		wantRows [][]string
		hasMore  bool
		next     int
	}{
		{"first page", page.Request{PageNumber: 1, StartRow: 0, SizeLimit: 1}, [][]string{{"Mexico City", "Mexico"}}, true, 1},
		{"second page", page.Request{PageNumber: 2, StartRow: 1, SizeLimit: 1}, [][]string{{"Guadalajara", "Mexico"}}, false, 0},
		{"negative start clamps", page.Request{PageNumber: 1, StartRow: -5, SizeLimit: 1}, [][]string{{"Mexico City", "Mexico"}}, true, 1},
		{"past end", page.Request{PageNumber: 9, StartRow: 40, SizeLimit: 5}, [][]string{}, false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.SearchRows(context.Background(),
				rowsReq(t, "db1", "t1", mexico(), filter.Filters{}, nil, tc.pg))
			require.NoError(t, err)
			assert.Equal(t, tc.wantRows, res.Rows)
			assert.Equal(t, tc.hasMore, res.Pagination.HasMore)
			assert.Equal(t, 2, res.Pagination.TotalRecords)
			assert.Equal(t, tc.pg.PageNumber, res.Pagination.PageNumber)
			assert.Equal(t, tc.pg.SizeLimit, res.Pagination.PageSize)
			if tc.hasMore {
				require.NotNil(t, res.Pagination.NextOffset)
				assert.Equal(t, tc.next, *res.Pagination.NextOffset)
			} else {
				assert.Nil(t, res.Pagination.NextOffset)
			}
		})
	}
}

func TestSearchRows_ExcludedTableIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		f      filter.Filters
		picked filter.Picked
	}{
		{"selected tables", filter.Filters{SelectedTables: []string{"t2"}}, nil},
		{"picked other table", filter.Filters{}, filter.Picked{{DB: "db1", Table: "t2"}}},
		{"picked other database", filter.Filters{}, filter.Picked{{DB: "db2", Table: "t1"}}},
		{"picked entries without table", filter.Filters{}, filter.Picked{{DB: "db1"}, {}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := testRecords()
			svc := newService(records)
			pg := page.Request{PageNumber: 3, StartRow: 0, SizeLimit: 7}

			res, err := svc.SearchRows(context.Background(),
				rowsReq(t, "db1", "t1", mexico(), tc.f, tc.picked, pg))
			require.NoError(t, err)

			assert.Empty(t, res.Columns)
			assert.Empty(t, res.Rows)
			assert.Equal(t, page.Pagination{PageNumber: 3, PageSize: 7}, res.Pagination)
			assert.Zero(t, records.calls["db1"])
		})
	}
}

func TestSearchRows_NotFound(t *testing.T) {
	svc := newService(testRecords())
	pg := page.Request{PageNumber: 1, SizeLimit: 20}

	_, err := svc.SearchRows(context.Background(), rowsReq(t, "db2", "t2", query.All(), filter.Filters{}, nil, pg))
	require.ErrorIs(t, err, domain.ErrNotFound)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.KindTable, nf.Kind)

	_, err = svc.SearchRows(context.Background(), rowsReq(t, "db1", "ghost", query.All(), filter.Filters{}, nil, pg))
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.KindTableMetadata, nf.Kind)
}

func TestBuildFacets_SkipsEmptyValues(t *testing.T) {
	bare := mustTable("t9", "", catalog.Year{}, "", nil, 0)
	f := BuildFacets([]result.TableHit{{Table: bare, Weight: 4}})

	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Regions)
	assert.Empty(t, f.TableNames)
	assert.Empty(t, f.TableYears)
}
