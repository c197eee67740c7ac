package wisdom

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/wisdom/internal/domain/search/query"
)

// Query is a record query. The zero value matches every record.
type Query struct {
	q query.Query
}

// MatchAll returns the query that matches every record.
func MatchAll() Query { return Query{q: query.All()} }

// Text matches records with any field containing s, ignoring case.
func Text(s string) Query { return Query{q: query.Text(s)} }

// Where folds elements left to right: each operator combines the result so
// far with the element after it.
func Where(elements ...Element) Query {
	return Query{q: query.Sequence(toDomainElements(elements)...)}
}

// ParseQuery decodes the JSON wire form used by the HTTP API:
// null, a string or an element list.
func ParseQuery(data []byte) (Query, error) {
	q, err := query.Parse(data)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return Query{q: q}, nil
}

// UnmarshalJSON implements json.Unmarshaler via ParseQuery.
func (q *Query) UnmarshalJSON(data []byte) error {
	parsed, err := ParseQuery(data)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

var _ json.Unmarshaler = (*Query)(nil)

// Element is a member of a Where query.
type Element struct {
	e query.Element
}

// Term matches a value (and its permutation variants) in any field.
func Term(value string) Element { return Element{e: query.NewClause(value, "")} }

// TermOf matches a value only in columns tagged with bdt.
func TermOf(value, bdt string) Element { return Element{e: query.NewClause(value, bdt)} }

// And combines the running result with the next element using AND.
func And() Element { return Element{e: query.NewOperator(query.And)} }

// Or combines the running result with the next element using OR.
func Or() Element { return Element{e: query.NewOperator(query.Or)} }

// Group nests elements as a sub-query evaluated on its own.
func Group(elements ...Element) Element {
	return Element{e: query.NewSubQuery(toDomainElements(elements)...)}
}

func toDomainElements(elements []Element) []query.Element {
	out := make([]query.Element, 0, len(elements))
	for _, el := range elements {
		if el.e != nil {
			out = append(out, el.e)
		}
	}
	return out
}
