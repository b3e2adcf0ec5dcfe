package tree

import (
	"fmt"
	"strings"
)

// UnknownSkinError is returned when a skin reference has no declaration in
// the assembled skin table.
type UnknownSkinError struct {
	Name     string
	Selector string // Selector at the splice point, may be empty
}

func (e *UnknownSkinError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("unknown skin %q", e.Name)
	}
	return fmt.Sprintf("unknown skin %q referenced under %q", e.Name, e.Selector)
}

// AmbiguousSkinError is returned when the same skin name is declared more
// than once in one composition.
type AmbiguousSkinError struct {
	Name string
}

func (e *AmbiguousSkinError) Error() string {
	return fmt.Sprintf("skin %q declared more than once", e.Name)
}

// CircularSkinError is returned when a skin references itself, directly or
// through other skins.
type CircularSkinError struct {
	Cycle []string
}

func (e *CircularSkinError) Error() string {
	return "circular skin reference: " + strings.Join(e.Cycle, " -> ")
}
