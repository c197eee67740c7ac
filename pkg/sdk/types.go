package wisdom

import (
	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
	"github.com/kailas-cloud/wisdom/internal/domain/search/filter"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/wisdom/internal/usecase/catalog"
)

// Column is a table column with its optional type tag.
type Column struct {
	Name string
	Type string
}

// Table is dataset table metadata. Year is the stored text, "" when absent.
type Table struct {
	ID          string
	Name        string
	Year        string
	Country     string
	Categories  []string
	RecordCount int
	Columns     []Column
}

// Database is a named group of tables.
type Database struct {
	ID          string
	Name        string
	Description string
	TableKeys   []string
}

// Catalog lists every table and database.
type Catalog struct {
	Tables    []Table
	Databases []Database
}

// TableHit is a table matched by a search. Count is the number of
// matching records, or the declared record count for an empty query.
type TableHit struct {
	Table
	DBID   string
	DBName string
	Count  int
}

// Facets are weighted counts per facet value.
type Facets struct {
	Categories map[string]int
	Regions    map[string]int
	TableNames map[string]int
	TableYears map[string]int
}

// TableResults is the outcome of a table search.
type TableResults struct {
	Tables []TableHit
	Facets Facets
	Total  int
}

// Pagination describes a returned row window.
type Pagination struct {
	HasMore      bool
	NextOffset   *int
	PageNumber   int
	PageSize     int
	TotalRecords int
}

// RowPage is one page of projected rows.
type RowPage struct {
	Columns    []string
	Rows       [][]string
	Pagination Pagination
}

// Filters narrows table results. Empty fields and "all" are ignored.
type Filters struct {
	TableName      string
	Year           string
	Category       string
	Country        string
	SelectedTables []string
	Categories     []string
	Regions        []string
	TableNames     []string
	TableYears     []string
}

// PickedTable restricts results to a table; an empty DB matches any database.
type PickedTable struct {
	DB    string
	Table string
}

// --- converters ---

func filtersToDomain(f Filters) filter.Filters {
	out := filter.Filters{
		TableName:      f.TableName,
		Category:       f.Category,
		Country:        f.Country,
		SelectedTables: f.SelectedTables,
		Categories:     f.Categories,
		Regions:        f.Regions,
		TableNames:     f.TableNames,
	}
	if f.Year != "" {
		out.Year = catalog.TextYear(f.Year)
	}
	for _, y := range f.TableYears {
		out.TableYears = append(out.TableYears, catalog.TextYear(y))
	}
	return out
}

func pickedToDomain(p []PickedTable) filter.Picked {
	if len(p) == 0 {
		return nil
	}
	out := make(filter.Picked, len(p))
	for i, e := range p {
		out[i] = filter.PickedTable{DB: e.DB, Table: e.Table}
	}
	return out
}

func tableFromDomain(t catalog.Table) Table {
	cols := make([]Column, len(t.Columns()))
	for i, c := range t.Columns() {
		cols[i] = Column{Name: c.Name(), Type: c.Type()}
	}
	return Table{
		ID:          t.ID(),
		Name:        t.Name(),
		Year:        t.Year().String(),
		Country:     t.Country(),
		Categories:  t.Categories(),
		RecordCount: t.RecordCount(),
		Columns:     cols,
	}
}

func tablesFromDomain(res result.Tables) TableResults {
	hits := make([]TableHit, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = TableHit{
			Table:  tableFromDomain(h.Table),
			DBID:   h.DBID,
			DBName: h.DBName,
			Count:  h.Weight,
		}
	}
	return TableResults{
		Tables: hits,
		Facets: Facets{
			Categories: res.Facets.Categories,
			Regions:    res.Facets.Regions,
			TableNames: res.Facets.TableNames,
			TableYears: res.Facets.TableYears,
		},
		Total: res.Total,
	}
}

func paginationFromDomain(p page.Pagination) Pagination {
	return Pagination{
		HasMore:      p.HasMore,
		NextOffset:   p.NextOffset,
		PageNumber:   p.PageNumber,
		PageSize:     p.PageSize,
		TotalRecords: p.TotalRecords,
	}
}

func catalogFromDomain(l cataloguc.Listing) Catalog {
	tables := make([]Table, len(l.Tables))
	for i, t := range l.Tables {
		tables[i] = tableFromDomain(t)
	}
	dbs := make([]Database, len(l.Databases))
	for i, e := range l.Databases {
		dbs[i] = Database{
			ID:          e.Database.ID(),
			Name:        e.Database.Name(),
			Description: e.Database.Description(),
			TableKeys:   e.TableKeys,
		}
	}
	return Catalog{Tables: tables, Databases: dbs}
}
