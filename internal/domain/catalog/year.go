package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Year is a table year in its stored representation.
// Metadata mixes JSON numbers and numeric strings, so the raw text is kept
// and numeric coercion happens only when a filter compares years.
type Year struct {
	raw     string
	numeric bool
	set     bool
}

// NumericYear creates a Year stored as a JSON number.
func NumericYear(y int) Year {
	return Year{raw: strconv.Itoa(y), numeric: true, set: true}
}

// TextYear creates a Year stored as a JSON string.
func TextYear(s string) Year {
	return Year{raw: s, set: true}
}

// IsSet reports whether the year was present and non-null.
func (y Year) IsSet() bool { return y.set }

// String returns the stored text ("2020" for both 2020 and "2020").
func (y Year) String() string { return y.raw }

// Int coerces the year to an integer.
// Numeric years are truncated; text years must parse as a base-10 integer.
func (y Year) Int() (int, bool) {
	if !y.set {
		return 0, false
	}
	if y.numeric {
		f, err := strconv.ParseFloat(y.raw, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int(f), true
	}
	n, err := strconv.Atoi(strings.TrimSpace(y.raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Equal reports whether both years coerce to the same integer.
// A year that cannot be coerced never matches.
func (y Year) Equal(other Year) bool {
	a, ok := y.Int()
	if !ok {
		return false
	}
	b, ok := other.Int()
	if !ok {
		return false
	}
	return a == b
}

// UnmarshalJSON accepts null, numbers, strings and booleans.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*y = Year{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode year: %w", err)
		}
		*y = TextYear(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*y = TextYear(string(data))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode year: %w", err)
		}
		*y = Year{raw: n.String(), numeric: true, set: true}
	}
	return nil
}

// MarshalJSON writes the year back in its stored representation.
func (y Year) MarshalJSON() ([]byte, error) {
	if !y.set {
		return []byte("null"), nil
	}
	if y.numeric {
		return []byte(y.raw), nil
	}
	return json.Marshal(y.raw)
}
