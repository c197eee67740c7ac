// Package permutation expands search terms into equivalent variants.
package permutation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Strategy identifies an expansion strategy.
type Strategy string

// Known strategies. Anything else falls back to Identity.
const (
	Identity Strategy = "identity"
	Reverse  Strategy = "reverse"
	Double   Strategy = "double"
)

// Levels for the double strategy and their repetition counts.
var levelRepetitions = map[string]int{
	"low":    2,
	"medium": 3,
	"high":   4,
}

const (
	levelParam        = "level"
	defaultRepetition = 2
)

// Map is term -> ordered variants, as returned by Expand and sent back by
// clients with search requests.
type Map map[string][]string

// UnmarshalJSON rejects null variants. A null variant list maps the term
// to no variants.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string][]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err //nolint:wrapcheck // json errors are reported as-is
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(Map, len(raw))
	for term, variants := range raw {
		if variants == nil {
			out[term] = nil
			continue
		}
		vs := make([]string, len(variants))
		for i, v := range variants {
			if v == nil {
				return fmt.Errorf("permutations[%q][%d]: variant must be a string, got null", term, i)
			}
			vs[i] = *v
		}
		out[term] = vs
	}
	*m = out
	return nil
}

// Variants returns the mapped variants of term (nil when unmapped).
func (m Map) Variants(term string) []string {
	if m == nil {
		return nil
	}
	return m[term]
}

// Expand maps every term to its variants under strategy.
// The original term is always the first variant.
func Expand(terms []string, strategy Strategy, params map[string]any) Map {
	out := make(Map, len(terms))
	for _, t := range terms {
		out[t] = Apply(t, strategy, params)
	}
	return out
}

// Apply expands a single term.
func Apply(term string, strategy Strategy, params map[string]any) []string {
	switch strategy {
	case Reverse:
		return []string{term, reverse(term)}
	case Double:
		n := repetitions(params)
		out := make([]string, 0, n)
		out = append(out, term)
		for i := 2; i <= n; i++ {
			out = append(out, strings.Repeat(term, i))
		}
		return out
	default:
		return []string{term}
	}
}

func repetitions(params map[string]any) int {
	level, ok := params[levelParam].(string)
	if !ok {
		return defaultRepetition
	}
	if n, ok := levelRepetitions[level]; ok {
		return n
	}
	return defaultRepetition
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
