package search

import (
	"strings"

	"github.com/kailas-cloud/wisdom/internal/domain/record"
	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
	"github.com/kailas-cloud/wisdom/internal/domain/search/query"
)

// Evaluator decides whether a record satisfies a query.
// Clause variants are resolved once at construction, so Match is safe
// for concurrent use.
type Evaluator struct {
	query    query.Query
	tables   TableIndex
	needle   string
	variants map[string][]string
}

// NewEvaluator prepares q for matching. Each clause term expands to
// itself plus its entries in perms, lowercased and deduplicated.
func NewEvaluator(q query.Query, tables TableIndex, perms permutation.Map) *Evaluator {
	e := &Evaluator{
		query:    q,
		tables:   tables,
		needle:   strings.ToLower(q.Text()),
		variants: make(map[string][]string),
	}
	e.collect(q.Elements(), perms)
	return e
}

func (e *Evaluator) collect(elements []query.Element, perms permutation.Map) {
	for _, el := range elements {
		switch el := el.(type) {
		case query.Clause:
			if !el.HasValue() {
				continue
			}
			if _, ok := e.variants[el.Value()]; ok {
				continue
			}
			e.variants[el.Value()] = lowerVariants(el.Value(), perms.Variants(el.Value()))
		case query.SubQuery:
			e.collect(el.Elements(), perms)
		}
	}
}

func lowerVariants(term string, extra []string) []string {
	seen := make(map[string]struct{}, len(extra)+1)
	out := make([]string, 0, len(extra)+1)
	for _, v := range append([]string{term}, extra...) {
		lv := strings.ToLower(v)
		if _, dup := seen[lv]; dup {
			continue
		}
		seen[lv] = struct{}{}
		out = append(out, lv)
	}
	return out
}

// Match reports whether r satisfies the query.
func (e *Evaluator) Match(r record.Record) bool {
	switch e.query.Kind() {
	case query.KindText:
		if e.needle == "" {
			return true
		}
		return r.ContainsAny([]string{e.needle})
	case query.KindSequence:
		return e.fold(e.query.Elements(), r)
	default:
		return true
	}
}

// fold evaluates elements left to right. An operator stays pending until
// the next operand consumes it; an operand with nothing pending after the
// first one leaves the running result unchanged. A list without operands
// matches.
func (e *Evaluator) fold(elements []query.Element, r record.Record) bool {
	var (
		result  bool
		started bool
		pending query.Op
	)
	for _, el := range elements {
		var res bool
		switch el := el.(type) {
		case query.Operator:
			pending = el.Op()
			continue
		case query.SubQuery:
			res = e.fold(el.Elements(), r)
		case query.Clause:
			res = e.clause(el, r)
		default:
			continue
		}

		if !started {
			result, started = res, true
			continue
		}
		switch pending {
		case query.And:
			result = result && res
		case query.Or:
			result = result || res
		default:
			continue
		}
		pending = ""
	}
	if !started {
		return true
	}
	return result
}

func (e *Evaluator) clause(c query.Clause, r record.Record) bool {
	if !c.HasValue() {
		return false
	}
	variants := e.variants[c.Value()]
	if c.BDT() == "" {
		return r.ContainsAny(variants)
	}

	key := r.TableKey()
	if key == "" {
		return false
	}
	t, ok := e.tables.Table(key)
	if !ok {
		return false
	}
	for _, col := range t.ColumnsOfType(c.BDT()) {
		if r.FieldContainsAny(col, variants) {
			return true
		}
	}
	return false
}
