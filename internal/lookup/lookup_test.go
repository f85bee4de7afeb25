// internal/lookup/lookup_test.go
//
// Memory lookup and the caching decorator.
//
// Run: go test ./internal/lookup -v

package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/recordeditor/internal/validation"
)

func seed() *Memory {
	return NewMemory(map[string]validation.Record{
		"r2": {"isbns": []any{map[string]any{"value": "0306406152"}}},
		"r1": {"isbns": []any{map[string]any{"value": "0306406152"}, map[string]any{"value": "x"}}},
		"r3": {"publication_info": map[string]any{"journal_title": "JHEP"}},
	})
}

func TestMemoryMatching(t *testing.T) {
	m := seed()
	ctx := context.Background()

	got, err := m.Matching(ctx, validation.Query{Field: "isbns", Property: "value", Value: "0306406152"})
	if err != nil {
		t.Fatalf("Matching: %v", err)
	}
	if diff := cmp.Diff([]string{"r1", "r2"}, got); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	got, _ = m.Matching(ctx, validation.Query{Field: "publication_info", Property: "journal_title", Value: "JHEP"})
	if diff := cmp.Diff([]string{"r3"}, got); diff != "" {
		t.Fatalf("single mapping not matched (-want +got):\n%s", diff)
	}

	boom := errors.New("down")
	m.Fail(boom)
	if _, err := m.Matching(ctx, validation.Query{Field: "isbns", Property: "value", Value: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
}

func TestCachedServesRepeatsFromCache(t *testing.T) {
	m := seed()
	c := NewCached(m, 8, time.Hour)
	q := validation.Query{Field: "publication_info", Property: "journal_title", Value: "JHEP"}

	for i := 0; i < 3; i++ {
		got, err := c.Matching(context.Background(), q)
		if err != nil || len(got) != 1 {
			t.Fatalf("call %d: %v %v", i, got, err)
		}
	}
	if m.Calls() != 1 {
		t.Fatalf("backend called %d times, want 1", m.Calls())
	}

	// Negative answers are cached as well.
	miss := validation.Query{Field: "publication_info", Property: "journal_title", Value: "Nope"}
	_, _ = c.Matching(context.Background(), miss)
	_, _ = c.Matching(context.Background(), miss)
	if m.Calls() != 2 {
		t.Fatalf("backend called %d times, want 2", m.Calls())
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	m := seed()
	c := NewCached(m, 8, time.Hour)
	q := validation.Query{Field: "isbns", Property: "value", Value: "x"}

	m.Fail(errors.New("down"))
	if _, err := c.Matching(context.Background(), q); err == nil {
		t.Fatalf("expected error")
	}
	m.Fail(nil)
	got, err := c.Matching(context.Background(), q)
	if err != nil || len(got) != 1 {
		t.Fatalf("recovery failed: %v %v", got, err)
	}
	if m.Calls() != 2 {
		t.Fatalf("backend called %d times, want 2", m.Calls())
	}
}

func TestCachedConcurrentCallers(t *testing.T) {
	c := NewCached(seed(), 8, time.Hour)
	q := validation.Query{Field: "isbns", Property: "value", Value: "0306406152"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := c.Matching(context.Background(), q); err != nil || len(got) != 2 {
				t.Errorf("concurrent call: %v %v", got, err)
			}
		}()
	}
	wg.Wait()
}
