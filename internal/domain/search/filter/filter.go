// Package filter holds table-level predicates applied after query matching.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
)

// all is the sentinel that disables a single-value predicate.
const all = "all"

// Filters is the set of optional table predicates, combined with AND.
// Zero values and the literal "all" disable a predicate.
type Filters struct {
	TableName      string         `json:"tableName,omitempty"`
	Year           catalog.Year   `json:"year"`
	Category       string         `json:"category,omitempty"`
	Country        string         `json:"country,omitempty"`
	SelectedTables Strings        `json:"selectedTables,omitempty"`
	Categories     Strings        `json:"categories,omitempty"`
	Regions        Strings        `json:"regions,omitempty"`
	TableNames     Strings        `json:"tableNames,omitempty"`
	TableYears     []catalog.Year `json:"tableYears,omitempty"`
	// ColumnTags is accepted for compatibility and not applied.
	ColumnTags Strings `json:"columnTags,omitempty"`
}

// Strings is a filter value list. Null elements are rejected when decoding.
type Strings []string

// UnmarshalJSON decodes a string list, failing on null elements.
func (s *Strings) UnmarshalJSON(data []byte) error {
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err //nolint:wrapcheck // json errors are reported as-is
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Strings, len(raw))
	for i, v := range raw {
		if v == nil {
			return fmt.Errorf("element %d must be a string, got null", i)
		}
		out[i] = *v
	}
	*s = out
	return nil
}

// Match reports whether table passes every active predicate.
// Year coercion failures exclude the table.
func (f *Filters) Match(t catalog.Table) bool {
	if len(f.SelectedTables) > 0 && !contains(f.SelectedTables, t.ID()) {
		return false
	}
	if f.TableName != "" && !strings.Contains(strings.ToLower(t.Name()), strings.ToLower(f.TableName)) {
		return false
	}
	if f.Year.IsSet() && f.Year.String() != all && !f.Year.Equal(t.Year()) {
		return false
	}
	if active(f.Category) && !t.HasCategory(f.Category) {
		return false
	}
	if active(f.Country) && t.Country() != f.Country {
		return false
	}
	if len(f.Categories) > 0 && !anyCategory(t, f.Categories) {
		return false
	}
	if len(f.Regions) > 0 && (t.Country() == "" || !contains(f.Regions, t.Country())) {
		return false
	}
	if len(f.TableNames) > 0 && !contains(f.TableNames, t.Name()) {
		return false
	}
	if len(f.TableYears) > 0 && !anyYear(t.Year(), f.TableYears) {
		return false
	}
	return true
}

// Selects reports whether the selected-tables allow-list admits table.
func (f *Filters) Selects(table string) bool {
	return len(f.SelectedTables) == 0 || contains(f.SelectedTables, table)
}

func active(v string) bool { return v != "" && v != all }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func anyCategory(t catalog.Table, cats []string) bool {
	for _, c := range cats {
		if t.HasCategory(c) {
			return true
		}
	}
	return false
}

// anyYear compares by text, so 2020 and "2020" are the same facet value.
func anyYear(y catalog.Year, years []catalog.Year) bool {
	if !y.IsSet() {
		return false
	}
	for _, want := range years {
		if want.IsSet() && want.String() == y.String() {
			return true
		}
	}
	return false
}
