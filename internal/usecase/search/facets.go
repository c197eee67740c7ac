package search

import "github.com/kailas-cloud/wisdom/internal/domain/search/result"

// BuildFacets sums hit weights per category, country, table name and year.
// A hit with zero weight still counts once.
func BuildFacets(hits []result.TableHit) result.Facets {
	f := result.NewFacets()
	for _, h := range hits {
		w := h.Weight
		if w == 0 {
			w = 1
		}
		t := h.Table
		for _, c := range t.Categories() {
			f.Categories[c] += w
		}
		if t.Country() != "" {
			f.Regions[t.Country()] += w
		}
		if t.Name() != "" {
			f.TableNames[t.Name()] += w
		}
		if t.Year().IsSet() {
			f.TableYears[t.Year().String()] += w
		}
	}
	return f
}
