package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one bibliographic metadata document, as decoded from JSON.
// Rules treat it as read-only.
type Record map[string]any

// ParseRecord decodes a JSON object into a Record.  Numbers are kept as
// json.Number so identifiers such as recids survive unchanged.
func ParseRecord(b []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("parse record: not a JSON object")
	}
	return rec, nil
}

// Has reports whether field is present, whatever its value.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Raw returns the value stored under field.
func (r Record) Raw(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Items returns field as a list of mappings.  Elements that are not
// mappings come back as nil so indexes still match the record.  A single
// mapping (thesis_info is one) is treated as a one-element list.
func (r Record) Items(field string) []map[string]any {
	return asItems(r[field])
}

// Strings returns field as a list of strings.  A scalar string counts as a
// one-element list; non-string elements are skipped.
func (r Record) Strings(field string) []string {
	switch v := r[field].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Contains reports whether field's values include want.
func (r Record) Contains(field, want string) bool {
	for _, s := range r.Strings(field) {
		if s == want {
			return true
		}
	}
	return false
}

func asItems(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case map[string]any:
		return []map[string]any{t}
	case Record:
		return []map[string]any{t}
	case []any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			switch m := e.(type) {
			case map[string]any:
				out[i] = m
			case Record:
				out[i] = m
			}
		}
		return out
	}
	return nil
}

// stringify renders a scalar item value the way it appears in messages and
// lookups.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
