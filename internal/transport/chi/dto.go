package chi

import (
	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
	"github.com/kailas-cloud/wisdom/internal/domain/search/filter"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
	"github.com/kailas-cloud/wisdom/internal/domain/search/query"
	"github.com/kailas-cloud/wisdom/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/wisdom/internal/usecase/catalog"
)

// --- Requests ---

type searchTablesRequest struct {
	DB           string          `json:"db"`
	DBs          []string        `json:"dbs"`
	Query        query.Query     `json:"query"`
	Filters      filter.Filters  `json:"filters"`
	Permutations permutation.Map `json:"permutations"`
	PickedTables filter.Picked   `json:"picked_tables"`
}

// databases returns dbs when non-empty, else the single db.
func (r *searchTablesRequest) databases() []string {
	if len(r.DBs) > 0 {
		return r.DBs
	}
	if r.DB != "" {
		return []string{r.DB}
	}
	return nil
}

type searchRowsOptions struct {
	DB         string `json:"db"`
	Table      string `json:"table"`
	PageNumber *int   `json:"pageNumber"`
	StartRow   *int   `json:"startRow"`
	SizeLimit  *int   `json:"sizeLimit"`
}

type searchRowsRequest struct {
	Query        query.Query        `json:"query"`
	Filters      filter.Filters     `json:"filters"`
	Permutations permutation.Map    `json:"permutations"`
	PickedTables filter.Picked      `json:"picked_tables"`
	Options      *searchRowsOptions `json:"options"`
}

type permutationsRequest struct {
	PermutationID string         `json:"permutationId"`
	Terms         []*string      `json:"terms"`
	Params        map[string]any `json:"params"`
}

// terms returns the requested terms; null entries are a client error.
func (r *permutationsRequest) terms() ([]string, error) {
	out := make([]string, 0, len(r.Terms))
	for i, t := range r.Terms {
		if t == nil {
			return nil, domain.NewInvalidRequest("terms[%d] must be a string", i)
		}
		out = append(out, *t)
	}
	return out, nil
}

// --- Responses ---

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

type tableResponse struct {
	ID         string       `json:"id"`
	Name       *string      `json:"name"`
	Year       catalog.Year `json:"year"`
	Country    *string      `json:"country"`
	Categories []string     `json:"categories"`
	Count      int          `json:"count"`
	Columns    []string     `json:"columns"`
	DBID       string       `json:"dbId,omitempty"`
	DBName     string       `json:"dbName,omitempty"`
}

type searchTablesResponse struct {
	Tables []tableResponse `json:"tables"`
	Facets result.Facets   `json:"facets"`
	Total  int             `json:"total"`
}

type searchRowsResponse struct {
	Columns    []string        `json:"columns"`
	Rows       [][]string      `json:"rows"`
	Pagination page.Pagination `json:"pagination"`
}

type databaseResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TableKeys   []string `json:"tableKeys"`
}

type catalogResponse struct {
	Tables    []tableResponse    `json:"tables"`
	Databases []databaseResponse `json:"databases"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// --- Converters ---

func tableToResponse(t catalog.Table) tableResponse {
	return tableResponse{
		ID:         t.ID(),
		Name:       nullable(t.Name()),
		Year:       t.Year(),
		Country:    nullable(t.Country()),
		Categories: t.Categories(),
		Count:      t.RecordCount(),
		Columns:    t.ColumnNames(),
	}
}

// nullable renders an absent catalog string as JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func hitToResponse(h result.TableHit) tableResponse {
	resp := tableToResponse(h.Table)
	resp.DBID = h.DBID
	resp.DBName = h.DBName
	return resp
}

func tablesToResponse(res result.Tables) searchTablesResponse {
	tables := make([]tableResponse, len(res.Hits))
	for i, h := range res.Hits {
		tables[i] = hitToResponse(h)
	}
	return searchTablesResponse{Tables: tables, Facets: res.Facets, Total: res.Total}
}

func rowsToResponse(res result.Rows) searchRowsResponse {
	return searchRowsResponse{Columns: res.Columns, Rows: res.Rows, Pagination: res.Pagination}
}

func catalogToResponse(l cataloguc.Listing) catalogResponse {
	tables := make([]tableResponse, len(l.Tables))
	for i, t := range l.Tables {
		tables[i] = tableToResponse(t)
	}
	dbs := make([]databaseResponse, len(l.Databases))
	for i, d := range l.Databases {
		dbs[i] = databaseResponse{
			ID:          d.Database.ID(),
			Name:        d.Database.Name(),
			Description: d.Database.Description(),
			TableKeys:   d.TableKeys,
		}
	}
	return catalogResponse{Tables: tables, Databases: dbs}
}
