package wisdom

import (
	"context"

	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
	"github.com/kailas-cloud/wisdom/internal/domain/search/request"
	"github.com/kailas-cloud/wisdom/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/wisdom/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/wisdom/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	tablesFn func(ctx context.Context, req *request.Tables) (result.Tables, error)
	rowsFn   func(ctx context.Context, req *request.Rows) (result.Rows, error)
}

func (m *mockSearchUC) SearchTables(ctx context.Context, req *request.Tables) (result.Tables, error) {
	return m.tablesFn(ctx, req)
}

func (m *mockSearchUC) SearchRows(ctx context.Context, req *request.Rows) (result.Rows, error) {
	return m.rowsFn(ctx, req)
}

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	listing cataloguc.Listing
	bdts    []string
}

func (m *mockCatalogUC) Catalog() cataloguc.Listing { return m.listing }
func (m *mockCatalogUC) BDTs() []string { return m.bdts }

// --- permutationUseCase mock ---

type mockPermutationUC struct {
	expandFn func(terms []string, strategy string, params map[string]any) (permutation.Map, error)
}

func (m *mockPermutationUC) Expand(terms []string, strategy string, params map[string]any) (permutation.Map, error) {
	return m.expandFn(terms, strategy, params)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(search searchUseCase) *Client {
	return &Client{
		searchSvc: search,
		paging:    pagingConfig{defaultSize: 20, maxSize: 1000},
	}
}
