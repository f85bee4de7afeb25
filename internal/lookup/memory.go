package lookup

import (
	"context"
	"sort"
	"sync"

	"github.com/yanizio/recordeditor/internal/validation"
)

// Memory is an in-memory Lookup over a fixed set of records.  It backs
// tests and local runs without a database.
type Memory struct {
	mu      sync.RWMutex
	records map[string]validation.Record
	err     error
	calls   int
}

// NewMemory returns a Memory seeded with records keyed by id.
func NewMemory(records map[string]validation.Record) *Memory {
	m := &Memory{records: make(map[string]validation.Record, len(records))}
	for id, r := range records {
		m.records[id] = r
	}
	return m
}

// Put stores or replaces a record.
func (m *Memory) Put(id string, r validation.Record) {
	m.mu.Lock()
	m.records[id] = r
	m.mu.Unlock()
}

// Fail makes every later Matching call return err, simulating a backend
// outage.  Fail(nil) restores normal answers.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Calls returns how many times Matching was invoked.
func (m *Memory) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Matching scans every record's q.Field list, sorted by id.
func (m *Memory) Matching(_ context.Context, q validation.Query) ([]string, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := []string{}
	for id, r := range m.records {
		for _, item := range r.Items(q.Field) {
			if v, ok := item[q.Property].(string); ok && v == q.Value {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}
