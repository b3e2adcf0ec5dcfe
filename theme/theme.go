// Package theme compiles themes: it picks libraries from a registry, layers
// their default variables under theme overrides, composes their trees and
// renders the result.
package theme

import (
	"lux/tree"
	"lux/vars"
)

// Theme is one compilation request.
type Theme struct {
	Name string
	// Libraries to draw from, empty means every registered library.
	// Requirements of listed libraries are pulled in automatically.
	Libraries []string
	// Overrides win over all library defaults.
	Overrides vars.Map
	// Sheet holds theme specific rules composed after all libraries, may be
	// nil.
	Sheet *tree.Sheet
}

// WithOverrides returns a copy of the theme with extra overrides layered on
// top of its own.
func (t Theme) WithOverrides(extra vars.Map) Theme {
	t.Overrides = vars.Merge([]vars.Map{t.Overrides}, extra)
	return t
}

// Catalog holds known theme definitions by name.
type Catalog map[string]Theme

// Get returns the named theme. A name not in the catalog is not an error: the
// theme draws from all libraries and has no overrides.
func (c Catalog) Get(name string) Theme {
	if t, ok := c[name]; ok {
		t.Name = name
		return t
	}
	return Theme{Name: name}
}
