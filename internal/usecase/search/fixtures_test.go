package search

import (
	"context"
	"sync"

	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
	"github.com/kailas-cloud/wisdom/internal/domain/record"
)

// --- Mocks ---

type mockRecords struct {
	mu    sync.Mutex
	data  map[string][]record.Record
	err   error
	calls map[string]int
}

func (m *mockRecords) Records(_ context.Context, db string) ([]record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[db]++
	if m.err != nil {
		return nil, m.err
	}
	recs, ok := m.data[db]
	if !ok {
		return nil, domain.NewDatabaseNotFound(db)
	}
	return recs, nil
}

// --- Fixtures ---

func mustTable(
	id, name string, year catalog.Year, country string,
	cats []string, count int, cols ...catalog.Column,
) catalog.Table {
	t, err := catalog.NewTable(id, name, year, country, cats, count, cols)
	if err != nil {
		panic(err)
	}
	return t
}

func testCatalog() *catalog.Catalog {
	tables := []catalog.Table{
		mustTable("t1", "Population", catalog.NumericYear(2020), "MX", []string{"demographics"}, 3,
			catalog.NewColumn("name", "city"), catalog.NewColumn("country", "country")),
		mustTable("t2", "GDP", catalog.NumericYear(2019), "US", []string{"economy"}, 2,
			catalog.NewColumn("region", "geo"), catalog.NewColumn("value", "number")),
		mustTable("t3", "Trade", catalog.TextYear("2021"), "MX", []string{"economy", "trade"}, 1,
			catalog.NewColumn("partner", "country")),
		mustTable("t4", "Empty", catalog.NumericYear(2018), "CA", nil, 0,
			catalog.NewColumn("x", "number")),
	}
	dbs := []catalog.Database{
		catalog.NewDatabase("db1", "Census", "population data"),
		catalog.NewDatabase("db2", "Commerce", "trade data"),
	}
	assignments := map[string][]string{
		"db1": {"t1", "t2", "ghost"},
		"db2": {"t3", "t4"},
	}
	return catalog.New(tables, dbs, assignments)
}

func rec(fields map[string]any) record.Record { return record.New(fields) }

func testRecords() *mockRecords {
	return &mockRecords{data: map[string][]record.Record{
		"db1": {
			rec(map[string]any{"tableKey": "t1", "name": "Mexico City", "country": "Mexico"}),
			rec(map[string]any{"tableKey": "t1", "name": "Guadalajara", "country": "Mexico"}),
			rec(map[string]any{"tableKey": "t1", "name": "Austin", "country": "USA"}),
			rec(map[string]any{"tableKey": "t2", "region": "North", "value": 10}),
			rec(map[string]any{"tableKey": "t2", "region": "Mexico border", "value": 5}),
			rec(map[string]any{"tableKey": "ghost", "name": "nowhere"}),
		},
		"db2": {
			rec(map[string]any{"tableKey": "t1", "name": "Monterrey", "country": "Mexico"}),
			rec(map[string]any{"tableKey": "t3", "partner": "Mexico"}),
			rec(map[string]any{"tableKey": "t3", "partner": "Canada"}),
			rec(map[string]any{"name": "orphan Mexico"}),
		},
	}}
}
