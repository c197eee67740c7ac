package query

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  Kind
		empty bool
	}{
		{"absent", ``, KindAll, true},
		{"null", `null`, KindAll, true},
		{"empty string", `""`, KindText, true},
		{"string", `"Mexico"`, KindText, false},
		{"empty list", `[]`, KindSequence, true},
		{"list", `[{"type":"clause","content":{"value":"x"}}]`, KindSequence, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Parse(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Kind() != tc.kind {
				t.Errorf("kind = %v, want %v", q.Kind(), tc.kind)
			}
			if q.IsEmpty() != tc.empty {
				t.Errorf("IsEmpty = %v, want %v", q.IsEmpty(), tc.empty)
			}
		})
	}
}

func TestParse_Tree(t *testing.T) {
	raw := `[
		{"type":"clause","content":{"value":"Mexico","bdt":"country"}},
		{"type":"operator","content":{"operator":"OR"}},
		{"type":"subQuery","content":{"elements":[
			{"type":"clause","content":{"value":2020}},
			{"type":"operator","content":{"operator":"AND"}},
			{"type":"clause","content":{"value":true,"bdt":null}}
		]}}
	]`
	q, err := Parse(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	els := q.Elements()
	if len(els) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(els))
	}

	c, ok := els[0].(Clause)
	if !ok || c.Value() != "Mexico" || c.BDT() != "country" || !c.HasValue() {
		t.Errorf("unexpected first clause %+v", els[0])
	}
	if op, ok := els[1].(Operator); !ok || op.Op() != Or {
		t.Errorf("unexpected operator %+v", els[1])
	}
	sub, ok := els[2].(SubQuery)
	if !ok || len(sub.Elements()) != 3 {
		t.Fatalf("unexpected sub-query %+v", els[2])
	}
	if c := sub.Elements()[0].(Clause); c.Value() != "2020" {
		t.Errorf("numeric value should keep its text, got %q", c.Value())
	}
	if c := sub.Elements()[2].(Clause); c.Value() != "true" || c.BDT() != "" {
		t.Errorf("unexpected boolean clause %+v", c)
	}
}

func TestParse_ValuelessClause(t *testing.T) {
	for _, raw := range []string{
		`[{"type":"clause","content":{"value":null}}]`,
		`[{"type":"clause","content":{}}]`,
		`[{"type":"clause"}]`,
	} {
		q, err := Parse(json.RawMessage(raw))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if c := q.Elements()[0].(Clause); c.HasValue() {
			t.Errorf("%s: expected valueless clause", raw)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"object query", `{"type":"clause"}`, "query must be"},
		{"number query", `42`, "query must be"},
		{"unknown type", `[{"type":"range","content":{}}]`, "unknown element type"},
		{"bad operator", `[{"type":"operator","content":{"operator":"XOR"}}]`, "invalid operator"},
		{"lowercase operator", `[{"type":"operator","content":{"operator":"and"}}]`, "invalid operator"},
		{"object value", `[{"type":"clause","content":{"value":{"a":1}}}]`, "string or number"},
		{"array value", `[{"type":"clause","content":{"value":[1]}}]`, "string or number"},
		{"numeric bdt", `[{"type":"clause","content":{"value":"x","bdt":3}}]`, "bdt must be a string"},
		{"element not object", `["x"]`, "element must be an object"},
		{"nested error", `[{"type":"subQuery","content":{"elements":[{"type":"nope"}]}}]`, "unknown element type"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(json.RawMessage(tc.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
		})
	}
}

func TestParse_Limits(t *testing.T) {
	deep := `{"type":"clause","content":{"value":"x"}}`
	for range MaxDepth + 1 {
		deep = `{"type":"subQuery","content":{"elements":[` + deep + `]}}`
	}
	if _, err := Parse(json.RawMessage("[" + deep + "]")); err == nil || !strings.Contains(err.Error(), "too deep") {
		t.Errorf("expected depth error, got %v", err)
	}

	items := make([]string, MaxElements+1)
	for i := range items {
		items[i] = `{"type":"operator","content":{"operator":"AND"}}`
	}
	if _, err := Parse(json.RawMessage("[" + strings.Join(items, ",") + "]")); err == nil || !strings.Contains(err.Error(), "too many") {
		t.Errorf("expected element count error, got %v", err)
	}
}

func TestQuery_UnmarshalJSON(t *testing.T) {
	var body struct {
		Query Query `json:"query"`
	}
	if err := json.Unmarshal([]byte(`{"query":"abc"}`), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Query.Kind() != KindText || body.Query.Text() != "abc" {
		t.Errorf("unexpected query %+v", body.Query)
	}

	body.Query = Query{}
	if err := json.Unmarshal([]byte(`{}`), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Query.Kind() != KindAll {
		t.Errorf("missing query should match all, got kind %v", body.Query.Kind())
	}
}
