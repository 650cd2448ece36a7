package formatter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps output format names to formatters.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]Formatter
	names    []string // sorted
	fallback string
}

// NewRegistry creates an empty registry whose preferred default is "table".
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Formatter), fallback: "table"}
}

// Register adds f under f.Name(). Names are unique.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := f.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("formatter %q already registered", name)
	}
	r.byName[name] = f

	i := sort.SearchStrings(r.names, name)
	r.names = append(r.names, "")
	copy(r.names[i+1:], r.names[i:])
	r.names[i] = name
	return nil
}

// Get returns the formatter registered under name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byName[name]
	return f, ok
}

// Default returns the preferred formatter, or the first by name when it is not
// registered. It is nil for an empty registry.
func (r *Registry) Default() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.byName[r.fallback]; ok {
		return f
	}
	if len(r.names) == 0 {
		return nil
	}
	return r.byName[r.names[0]]
}

// SetDefault changes the preferred formatter.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("formatter %q not registered", name)
	}
	r.fallback = name
	return nil
}

// List returns the registered names in order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to DefaultRegistry.
func Register(f Formatter) error { return DefaultRegistry.Register(f) }

// Get looks a formatter up in DefaultRegistry.
func Get(name string) (Formatter, bool) { return DefaultRegistry.Get(name) }

// Default returns the default formatter of DefaultRegistry.
func Default() Formatter { return DefaultRegistry.Default() }

// List returns the names in DefaultRegistry.
func List() []string { return DefaultRegistry.List() }

func mustRegister(f Formatter) {
	if err := Register(f); err != nil {
		panic(err)
	}
}
