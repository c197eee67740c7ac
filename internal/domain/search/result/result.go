// Package result holds search outputs: table hits, facets and row pages.
package result

import (
	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
)

// TableHit is a surviving table annotated with its owning database.
// Weight is the facet weight: matching record count when a query is
// present, the declared row count otherwise.
type TableHit struct {
	Table  catalog.Table
	DBID   string
	DBName string
	Weight int
}

// Facets are weighted counts per facet value.
type Facets struct {
	Categories map[string]int `json:"categories"`
	Regions    map[string]int `json:"regions"`
	TableNames map[string]int `json:"tableNames"`
	TableYears map[string]int `json:"tableYears"`
}

// NewFacets returns empty, non-nil facet maps.
func NewFacets() Facets {
	return Facets{
		Categories: map[string]int{},
		Regions:    map[string]int{},
		TableNames: map[string]int{},
		TableYears: map[string]int{},
	}
}

// Tables is the outcome of a table search.
type Tables struct {
	Hits   []TableHit
	Facets Facets
	Total  int
}

// Rows is one page of projected rows.
type Rows struct {
	Columns    []string
	Rows       [][]string
	Pagination page.Pagination
}

// EmptyRows is the soft-empty outcome for excluded tables.
func EmptyRows(req page.Request) Rows {
	return Rows{
		Columns:    []string{},
		Rows:       [][]string{},
		Pagination: page.Empty(req),
	}
}
