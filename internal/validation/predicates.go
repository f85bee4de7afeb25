// internal/validation/predicates.go
//
// Reusable predicates shared by the rule catalog.
//
// Context
// -------
// Most rules are one directional implication between fields: "if A is
// present then B must be".  The helpers below answer the recurring
// sub-questions:
//
//   - FieldInItems  – does a property occur (at least N times) across a list?
//   - ValuesAbsent  – do none of a field's values hit a required set?
//   - CheckItems    – run a per-item check over a list, collecting every
//     offending index in one pass.
//   - DuplicateCheck – ask the record store whether another record already
//     carries the same list value.
//
// Notes
// -----
//   - CheckItems never stops at the first bad item.  It stops only when a
//     check reports an infrastructure error, which the caller propagates.
package validation

import (
	"context"
	"fmt"
	"strings"
)

// FieldInItems reports whether at least limit items carry field.  A limit
// below 1 is treated as 1.
func FieldInItems(items []map[string]any, field string, limit int) bool {
	if limit < 1 {
		limit = 1
	}
	for _, it := range items {
		if _, ok := it[field]; ok {
			limit--
			if limit == 0 {
				return true
			}
		}
	}
	return false
}

// ValuesAbsent reports whether none of rec[field]'s values is in required.
// A missing field counts as absent.
func ValuesAbsent(rec Record, field string, required []string) bool {
	for _, v := range rec.Strings(field) {
		for _, want := range required {
			if v == want {
				return false
			}
		}
	}
	return true
}

// Item is one list element handed to an ItemCheck.
type Item struct {
	Field    string
	Property string
	Value    any
	Index    int
	Severity Severity
}

// Path returns `/{field}/{index}/{property}`.
func (it Item) Path() string { return ItemPropertyPath(it.Field, it.Index, it.Property) }

// ItemCheck inspects a single list element.  It returns a finding for a
// violation, nil when the item is fine, or an error when an external
// resource failed.
type ItemCheck func(ctx context.Context, it Item) (*Finding, error)

// CheckItems runs check for every element of rec[field] holding property
// and collects the findings into one fragment.
func CheckItems(ctx context.Context, rec Record, field, property string, sev Severity, check ItemCheck) (Report, error) {
	out := Report{}
	for i, item := range rec.Items(field) {
		v, ok := item[property]
		if !ok {
			continue
		}
		f, err := check(ctx, Item{Field: field, Property: property, Value: v, Index: i, Severity: sev})
		if err != nil {
			return nil, fmt.Errorf("%s[%d].%s: %w", field, i, property, err)
		}
		if f != nil {
			out.Add(*f)
		}
	}
	return out, nil
}

// DuplicateCheck returns an ItemCheck that flags values already present in
// other stored records.  The finding lands on `/{field}/{index}/value` and
// lists the matching record identifiers.
func DuplicateCheck(lookup Lookup) ItemCheck {
	return func(ctx context.Context, it Item) (*Finding, error) {
		value := stringify(it.Value)
		q := Query{Field: it.Field, Property: it.Property, Value: value}
		ids, err := lookup.Matching(ctx, q)
		if err != nil {
			return nil, &LookupError{Query: q, Err: err}
		}
		if len(ids) == 0 {
			return nil, nil
		}
		f := newSeverity(
			ItemPropertyPath(it.Field, it.Index, "value"),
			fmt.Sprintf(tplDuplicateValues, it.Field, value, quoteList(ids)),
			it.Severity,
		)
		return &f, nil
	}
}

// quoteList renders values as ['a', 'b'], the format used in messages.
func quoteList(vs []string) string {
	q := make([]string, len(vs))
	for i, v := range vs {
		q[i] = "'" + v + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}
