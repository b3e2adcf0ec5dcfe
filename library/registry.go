// Package library keeps named bundles of selector trees and default variables
// that themes draw from.
package library

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"lux/tree"
	"lux/vars"
)

// UnknownLibraryError is returned when a library name is not registered.
type UnknownLibraryError struct {
	Name string
}

func (e *UnknownLibraryError) Error() string {
	return fmt.Sprintf("unknown library %q", e.Name)
}

// DuplicateLibraryError is returned when a name is registered twice.
type DuplicateLibraryError struct {
	Name string
}

func (e *DuplicateLibraryError) Error() string {
	return fmt.Sprintf("library %q already registered", e.Name)
}

// Entry is a registered library.
type Entry struct {
	Name     string
	Sheet    *tree.Sheet
	Defaults vars.Map
	Requires []string

	themes map[string]vars.Map
}

// Variables returns variable layers for the theme: library defaults followed
// by the theme specific variant when there is one.
func (e *Entry) Variables(theme string) []vars.Map {
	layers := []vars.Map{e.Defaults}
	if v, ok := e.themes[theme]; ok {
		layers = append(layers, v)
	}
	return layers
}

// Themes lists theme names the library carries variants for.
func (e *Entry) Themes() []string {
	return slices.Sorted(maps.Keys(e.themes))
}

// Option modifies an entry during registration.
type Option func(*Entry)

// Requires declares libraries which must be composed before this one.
// Required libraries have to be registered already.
func Requires(names ...string) Option {
	return func(e *Entry) {
		e.Requires = append(e.Requires, names...)
	}
}

// ThemeDefaults adds a variant of default variables used when compiling the
// named theme. It is layered over the library defaults.
func ThemeDefaults(theme string, m vars.Map) Option {
	return func(e *Entry) {
		if e.themes == nil {
			e.themes = make(map[string]vars.Map)
		}
		e.themes[theme] = m.Clone()
	}
}

// Registry maps library names to entries. Registration order is the
// precedence order for default variables. Registry is safe for concurrent
// use, it is normally populated once at startup and only read afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries []*Entry
	index   map[string]*Entry
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*Entry)}
}

// Register adds a library. Defaults are copied.
func (r *Registry) Register(name string, sheet *tree.Sheet, defaults vars.Map, opts ...Option) error {
	if sheet == nil {
		sheet = tree.New()
	}
	e := &Entry{Name: name, Sheet: sheet, Defaults: defaults.Clone()}
	for _, opt := range opts {
		opt(e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[name]; exists {
		return &DuplicateLibraryError{Name: name}
	}
	for _, req := range e.Requires {
		if _, ok := r.index[req]; !ok {
			return fmt.Errorf("library %q requires %w", name, &UnknownLibraryError{Name: req})
		}
	}
	r.entries = append(r.entries, e)
	r.index[name] = e
	return nil
}

// Lookup returns the named library.
func (r *Registry) Lookup(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.index[name]
	if !ok {
		return nil, &UnknownLibraryError{Name: name}
	}
	return e, nil
}

// All returns every library in registration order.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries)
}

// Names returns library names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	return names
}

// Select returns the named libraries together with everything they require,
// in registration order. No names selects all libraries.
func (r *Registry) Select(names []string) ([]*Entry, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[string]bool, len(names))
	var visit func(name string) error
	visit = func(name string) error {
		if want[name] {
			return nil
		}
		e, ok := r.index[name]
		if !ok {
			return &UnknownLibraryError{Name: name}
		}
		want[name] = true
		for _, req := range e.Requires {
			if err := visit(req); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	selected := make([]*Entry, 0, len(want))
	for _, e := range r.entries {
		if want[e.Name] {
			selected = append(selected, e)
		}
	}
	return selected, nil
}
