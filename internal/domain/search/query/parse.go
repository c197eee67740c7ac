package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Element type tags on the wire.
const (
	typeClause   = "clause"
	typeOperator = "operator"
	typeSubQuery = "subQuery"
)

type wireElement struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

type wireClause struct {
	Value json.RawMessage `json:"value"`
	BDT   json.RawMessage `json:"bdt"`
}

type wireOperator struct {
	Operator string `json:"operator"`
}

type wireSubQuery struct {
	Elements []json.RawMessage `json:"elements"`
}

// Parse validates a JSON query payload: null, a string or an element array.
func Parse(raw json.RawMessage) (Query, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return All(), nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Query{}, fmt.Errorf("query: %w", err)
		}
		return Text(s), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Query{}, fmt.Errorf("query: %w", err)
		}
		elements, err := parseElements(items, 1)
		if err != nil {
			return Query{}, err
		}
		return Sequence(elements...), nil
	default:
		return Query{}, fmt.Errorf("query must be null, a string or a list of elements")
	}
}

// UnmarshalJSON implements json.Unmarshaler via Parse.
func (q *Query) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func parseElements(items []json.RawMessage, depth int) ([]Element, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("query nesting too deep (max %d)", MaxDepth)
	}
	if len(items) > MaxElements {
		return nil, fmt.Errorf("too many query elements (max %d)", MaxElements)
	}
	out := make([]Element, 0, len(items))
	for i, item := range items {
		el, err := parseElement(item, depth)
		if err != nil {
			return nil, fmt.Errorf("query element %d: %w", i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

func parseElement(raw json.RawMessage, depth int) (Element, error) {
	var w wireElement
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("element must be an object: %w", err)
	}
	content := bytes.TrimSpace(w.Content)
	if isNull(content) {
		content = []byte("{}")
	}

	switch w.Type {
	case typeClause:
		var c wireClause
		if err := json.Unmarshal(content, &c); err != nil {
			return nil, fmt.Errorf("clause content: %w", err)
		}
		return clauseFromWire(c)
	case typeOperator:
		var o wireOperator
		if err := json.Unmarshal(content, &o); err != nil {
			return nil, fmt.Errorf("operator content: %w", err)
		}
		op := Op(o.Operator)
		if !op.IsValid() {
			return nil, fmt.Errorf("invalid operator %q (want AND or OR)", o.Operator)
		}
		return NewOperator(op), nil
	case typeSubQuery:
		var s wireSubQuery
		if err := json.Unmarshal(content, &s); err != nil {
			return nil, fmt.Errorf("subQuery content: %w", err)
		}
		elements, err := parseElements(s.Elements, depth+1)
		if err != nil {
			return nil, err
		}
		return NewSubQuery(elements...), nil
	default:
		return nil, fmt.Errorf("unknown element type %q", w.Type)
	}
}

func clauseFromWire(c wireClause) (Clause, error) {
	var bdt string
	if b := bytes.TrimSpace(c.BDT); !isNull(b) {
		if err := json.Unmarshal(b, &bdt); err != nil {
			return Clause{}, fmt.Errorf("clause bdt must be a string")
		}
	}

	v := bytes.TrimSpace(c.Value)
	if isNull(v) {
		return NewValuelessClause(bdt), nil
	}
	switch {
	case v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return Clause{}, fmt.Errorf("clause value: %w", err)
		}
		return NewClause(s, bdt), nil
	case v[0] == '{' || v[0] == '[':
		return Clause{}, fmt.Errorf("clause value must be a string or number")
	default:
		// numbers and booleans keep their literal text
		return NewClause(string(v), bdt), nil
	}
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
