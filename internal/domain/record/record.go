// Package record holds the flat stored rows that belong to tables.
package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TableKeyField is the field that names a record's owning table.
const TableKeyField = "tableKey"

// Record is one flat row. Field values are stringified once at load time;
// null fields are dropped and read back as empty strings.
type Record struct {
	text  map[string]string
	lower map[string]string
}

// New creates a Record from decoded JSON fields.
func New(fields map[string]any) Record {
	r := Record{
		text:  make(map[string]string, len(fields)),
		lower: make(map[string]string, len(fields)),
	}
	for k, v := range fields {
		s, ok := Stringify(v)
		if !ok {
			continue
		}
		r.text[k] = s
		r.lower[k] = strings.ToLower(s)
	}
	return r
}

// TableKey returns the owning table id ("" when absent).
func (r Record) TableKey() string { return r.text[TableKeyField] }

// Field returns the stringified value; ok is false for missing or null fields.
func (r Record) Field(name string) (string, bool) {
	s, ok := r.text[name]
	return s, ok
}

// Len returns the number of non-null fields.
func (r Record) Len() int { return len(r.text) }

// ContainsAny reports whether any non-null field contains one of the
// lowercased needles.
func (r Record) ContainsAny(needles []string) bool {
	for _, v := range r.lower {
		for _, n := range needles {
			if strings.Contains(v, n) {
				return true
			}
		}
	}
	return false
}

// FieldContainsAny reports whether the named field contains one of the
// lowercased needles. A missing field reads as the empty string.
func (r Record) FieldContainsAny(name string, needles []string) bool {
	v := r.lower[name]
	for _, n := range needles {
		if strings.Contains(v, n) {
			return true
		}
	}
	return false
}

// Project returns the values of the given columns in order, "" for missing.
func (r Record) Project(columns []string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = r.text[c]
	}
	return row
}

// Stringify renders a decoded JSON scalar as text. ok is false for null.
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}
