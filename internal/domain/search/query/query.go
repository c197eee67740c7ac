// Package query models the boolean search tree sent by clients.
//
// A query is one of three cases: absent (match everything), a plain text
// needle, or an ordered sequence of elements. Elements are clauses,
// operators and nested sub-queries, folded left to right by the evaluator.
package query

// Limits on query shape.
const (
	MaxDepth    = 32
	MaxElements = 256
)

// Kind identifies the query case.
type Kind int

const (
	// KindAll matches every record.
	KindAll Kind = iota
	// KindText is a case-insensitive substring match over all fields.
	KindText
	// KindSequence is an element list folded left to right.
	KindSequence
)

// Query is an immutable query tree.
type Query struct {
	kind     Kind
	text     string
	elements []Element
}

// All returns the match-all query.
func All() Query { return Query{kind: KindAll} }

// Text returns a plain substring query.
func Text(s string) Query { return Query{kind: KindText, text: s} }

// Sequence returns an element-list query.
func Sequence(elements ...Element) Query {
	return Query{kind: KindSequence, elements: elements}
}

// Kind returns the query case.
func (q Query) Kind() Kind { return q.kind }

// Text returns the needle of a text query.
func (q Query) Text() string { return q.text }

// Elements returns the elements of a sequence query.
func (q Query) Elements() []Element { return q.elements }

// IsEmpty reports whether the query imposes no constraint: absent,
// an empty string or an empty sequence.
func (q Query) IsEmpty() bool {
	switch q.kind {
	case KindText:
		return q.text == ""
	case KindSequence:
		return len(q.elements) == 0
	default:
		return true
	}
}

// Element is a member of a sequence query: Clause, Operator or SubQuery.
type Element interface {
	element()
}

// Clause matches a term (plus its permutation variants) against a record.
type Clause struct {
	value    string
	hasValue bool
	bdt      string
}

// NewClause creates a clause. An empty bdt matches any field.
func NewClause(value, bdt string) Clause {
	return Clause{value: value, hasValue: true, bdt: bdt}
}

// NewValuelessClause creates a clause without a value; it never matches.
func NewValuelessClause(bdt string) Clause {
	return Clause{bdt: bdt}
}

// Value returns the clause term.
func (c Clause) Value() string { return c.value }

// HasValue reports whether the clause carries a term.
func (c Clause) HasValue() bool { return c.hasValue }

// BDT returns the column type-tag restriction ("" for none).
func (c Clause) BDT() string { return c.bdt }

func (Clause) element() {}

// Op is a boolean connective.
type Op string

// Supported connectives.
const (
	And Op = "AND"
	Or  Op = "OR"
)

// IsValid checks if the connective is supported.
func (o Op) IsValid() bool { return o == And || o == Or }

// Operator combines the running result with the next element.
type Operator struct {
	op Op
}

// NewOperator creates an operator element.
func NewOperator(op Op) Operator { return Operator{op: op} }

// Op returns the connective.
func (o Operator) Op() Op { return o.op }

func (Operator) element() {}

// SubQuery is a nested element list evaluated as its own tree.
type SubQuery struct {
	elements []Element
}

// NewSubQuery creates a nested element list.
func NewSubQuery(elements ...Element) SubQuery {
	return SubQuery{elements: elements}
}

// Elements returns the nested elements.
func (s SubQuery) Elements() []Element { return s.elements }

func (SubQuery) element() {}
