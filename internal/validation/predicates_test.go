package validation

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFieldInItems(t *testing.T) {
	items := []map[string]any{{"cnum": "C1"}, {"year": 1}, nil, {"cnum": "C2"}}

	if !FieldInItems(items, "cnum", 1) || !FieldInItems(items, "cnum", 2) {
		t.Fatalf("expected cnum at least twice")
	}
	if FieldInItems(items, "cnum", 3) {
		t.Fatalf("only two cnums present")
	}
	if !FieldInItems(items, "year", 0) {
		t.Fatalf("limit below 1 should behave as 1")
	}
	if FieldInItems(nil, "cnum", 1) {
		t.Fatalf("empty list has no fields")
	}
}

func TestValuesAbsent(t *testing.T) {
	rec := Record{"document_type": []any{"article", "thesis"}}
	if ValuesAbsent(rec, "document_type", []string{"thesis"}) {
		t.Fatalf("thesis is present")
	}
	if !ValuesAbsent(rec, "document_type", []string{"book"}) {
		t.Fatalf("book is absent")
	}
	if !ValuesAbsent(Record{}, "document_type", []string{"book"}) {
		t.Fatalf("missing field counts as absent")
	}
}

func TestItemsKeepsIndexes(t *testing.T) {
	rec := Record{"isbns": []any{"loose", map[string]any{"value": "x"}}}
	items := rec.Items("isbns")
	if len(items) != 2 || items[0] != nil || items[1]["value"] != "x" {
		t.Fatalf("unexpected items %#v", items)
	}
}

func TestCheckItemsWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	rec := Record{"dois": []any{map[string]any{"value": "a"}, map[string]any{"value": "b"}}}

	var visited int
	_, err := CheckItems(context.Background(), rec, "dois", "value", SeverityWarning,
		func(_ context.Context, it Item) (*Finding, error) {
			visited++
			if it.Index == 1 {
				return nil, boom
			}
			return nil, nil
		})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "dois[1].value") {
		t.Fatalf("unexpected error %v", err)
	}
	if visited != 2 {
		t.Fatalf("visited %d items, want 2", visited)
	}
}

func TestQuoteList(t *testing.T) {
	if got := quoteList([]string{"a", "b"}); got != "['a', 'b']" {
		t.Fatalf("quoteList = %s", got)
	}
}
