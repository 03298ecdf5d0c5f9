package agents

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds loaded agent definitions. When two directories define the
// same name, the one listed first wins.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]*Definition
	loader *Loader
}

// NewRegistry creates a registry over the given search paths
func NewRegistry(paths []string, globalPath string) *Registry {
	return &Registry{
		defs:   make(map[string]*Definition),
		loader: NewLoader(paths, globalPath),
	}
}

// Refresh reloads all definitions from disk
func (r *Registry) Refresh() error {
	defs, err := r.loader.LoadAll()
	if err != nil {
		return err
	}

	fresh := make(map[string]*Definition, len(defs))
	for _, d := range defs {
		if _, seen := fresh[d.Name]; !seen {
			fresh[d.Name] = d
		}
	}

	r.mu.Lock()
	r.defs = fresh
	r.mu.Unlock()
	return nil
}

// Get returns a definition by name
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}
	return d, nil
}

// List returns all definitions sorted by name
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Register adds a definition programmatically, replacing any with the same name
func (r *Registry) Register(d *Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[d.Name] = d
	return nil
}

// Count returns the number of loaded definitions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
