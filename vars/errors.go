package vars

import (
	"fmt"
	"strings"
)

// UnknownVariableError is returned when a referenced name has no binding
// after merging.
type UnknownVariableError struct {
	Name     string // Missing variable
	Referrer string // What referenced it: a variable or a selector/property pair
}

func (e *UnknownVariableError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("unknown variable $%s", e.Name)
	}
	return fmt.Sprintf("unknown variable $%s referenced by %s", e.Name, e.Referrer)
}

// CircularVariableError is returned when variable references form a cycle.
// Cycle starts and ends with the same name.
type CircularVariableError struct {
	Cycle []string
}

func (e *CircularVariableError) Error() string {
	return "circular variable reference: $" + strings.Join(e.Cycle, " -> $")
}
