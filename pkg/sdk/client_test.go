package wisdom

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const sampleDir = "../../data"

func newSampleClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithDirectory(sampleDir)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_RequiresSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil || !strings.Contains(err.Error(), "dataset source required") {
		t.Fatalf("err = %v, want source required", err)
	}
}

func TestNew_InvalidPageSizes(t *testing.T) {
	_, err := New(context.Background(), WithDirectory(sampleDir), WithPageSize(50, 10))
	if err == nil || !strings.Contains(err.Error(), "invalid page sizes") {
		t.Fatalf("err = %v, want invalid page sizes", err)
	}
}

func TestNew_MissingMetadata(t *testing.T) {
	_, err := New(context.Background(), WithDirectory(t.TempDir()))
	if !errors.Is(err, ErrDatasetCorrupt) {
		t.Fatalf("err = %v, want ErrDatasetCorrupt", err)
	}
}

func TestClient_SampleDataset(t *testing.T) {
	c := newSampleClient(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if h := c.Health(ctx); h.Status != "ok" {
		t.Errorf("Health = %+v, want ok", h)
	}

	cat := c.Catalog()
	if len(cat.Tables) != 3 || len(cat.Databases) != 2 {
		t.Fatalf("Catalog = %d tables, %d databases", len(cat.Tables), len(cat.Databases))
	}
	if got := c.BDTs(); strings.Join(got, ",") != "country,date,region" {
		t.Errorf("BDTs = %v", got)
	}

	res, err := c.SearchTables(ctx, TableSearch{
		Databases: []string{"census", "economy"},
		Query:     Where(Term("south"), Or(), Term("china")),
	})
	if err != nil {
		t.Fatalf("SearchTables: %v", err)
	}
	ids := make([]string, len(res.Tables))
	for i, h := range res.Tables {
		ids[i] = h.ID
	}
	// "south" matches "Southeast" and "South" in gdp_br_2021.
	if strings.Join(ids, ",") != "trade_jp_2019,gdp_br_2021" {
		t.Errorf("tables = %v", ids)
	}
	if res.Tables[1].Count != 2 || res.Tables[1].DBName != "Economy" {
		t.Errorf("gdp hit = %+v", res.Tables[1])
	}

	page, err := c.SearchRows(ctx, RowSearch{
		Database:  "census",
		Table:     "pop_mx_2020",
		SizeLimit: intPtr(2),
	})
	if err != nil {
		t.Fatalf("SearchRows: %v", err)
	}
	if strings.Join(page.Columns, ",") != "state,population,census" {
		t.Errorf("Columns = %v", page.Columns)
	}
	if len(page.Rows) != 2 || page.Rows[0][1] != "8348151" {
		t.Errorf("Rows = %v", page.Rows)
	}
	if !page.Pagination.HasMore || page.Pagination.TotalRecords != 3 {
		t.Errorf("Pagination = %+v", page.Pagination)
	}
}

func TestClient_SearchRowsUnknownTable(t *testing.T) {
	c := newSampleClient(t, WithWorkers(0))

	_, err := c.SearchRows(context.Background(), RowSearch{Database: "census", Table: "gdp_br_2021"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newSampleClient(t, WithPrometheus(reg))

	_, _ = c.SearchTables(context.Background(), TableSearch{Databases: []string{"census"}})
	_, _ = c.SearchTables(context.Background(), TableSearch{})

	if n, err := testutil.GatherAndCount(reg, "wisdom_sdk_operations_total"); err != nil || n != 2 {
		t.Errorf("series = %d (err %v), want ok+error", n, err)
	}
}
