// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name>.  Components that
// need injected dependencies are built in cmd/web and passed to
// component.Register(); Mount() then attaches every registered component's
// Routes() under "/<name>" in name order.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes() returns a router whose patterns are relative to "/<name>",
// e.g. the editor component serves "/validate" as "/editor/validate":
//
//	r := chi.NewRouter()
//	r.Post("/validate", h.validate)
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register adds c, replacing any component with the same name.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount attaches every registered component to r and returns their names.
func Mount(r chi.Router) []string {
	var names []string
	for _, c := range All() {
		r.Mount("/"+c.Name(), c.Routes())
		names = append(names, c.Name())
	}
	return names
}

// reset clears the registry; tests only.
func reset() {
	mu.Lock()
	registry = map[string]Component{}
	mu.Unlock()
}
