package schema

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Registry records every declared (entity, view) pair.
type Registry struct {
	mu    sync.RWMutex
	views map[string]map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[string]map[string][]string)}
}

// Register records a view's columns. A second view with the same name on the
// same entity is rejected.
func (r *Registry) Register(entity *Entity, view string, columns []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byView, ok := r.views[entity.Name]
	if !ok {
		byView = make(map[string][]string)
		r.views[entity.Name] = byView
	}
	if _, dup := byView[view]; dup {
		return fmt.Errorf("view %s.%s already registered", entity.Name, view)
	}
	byView[view] = slices.Clone(columns)
	return nil
}

// Columns returns the columns a registered view projects.
func (r *Registry) Columns(entity, view string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cols, ok := r.views[entity][view]
	return slices.Clone(cols), ok
}

// Views lists the view names registered for entity, sorted.
func (r *Registry) Views(entity string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.views[entity]))
	for name := range r.views[entity] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
