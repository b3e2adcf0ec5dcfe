// Package css holds a flat stylesheet model: rules with ordered declarations
// and possibly nested @media blocks. It is what the renderer produces and
// what the parser reads library files into. @import statements found by the
// parser are only recorded so loaders can report them.
package css

import (
	"fmt"
	"io"
	"strings"
)

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Rule represents a single CSS rule (selector + declarations in source
// order).
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// Set appends a declaration. An earlier declaration of the same property is
// dropped so the last write wins and keeps its position in the cascade.
func (r *Rule) Set(property, value string) {
	for i, d := range r.Declarations {
		if d.Property == property {
			r.Declarations = append(r.Declarations[:i], r.Declarations[i+1:]...)
			break
		}
	}
	r.Declarations = append(r.Declarations, Declaration{Property: property, Value: value})
}

// Get returns the value of a property.
func (r *Rule) Get(property string) (string, bool) {
	for _, d := range r.Declarations {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Item is a single top-level (or media nested) item in a stylesheet.
// Exactly one of Rule, Media, or Import is non-nil.
type Item struct {
	Rule   *Rule       // A plain rule (selector + declarations)
	Media  *MediaBlock // A @media block containing nested items
	Import *string     // An @import URL, never written
}

// MediaBlock represents a @media block with its query and nested items.
type MediaBlock struct {
	Query string
	Items []Item
}

// Stylesheet represents a flat stylesheet.
type Stylesheet struct {
	Items    []Item   // All top-level items in source order
	Warnings []string // Warnings for skipped constructs
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// WriteTo writes rules and media blocks to w in source order, implementing
// io.WriterTo. Declarations keep their order.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	n, err := writeItems(w, s.Items, 0)
	return int64(n), err
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeItems writes rules and media blocks at the given nesting depth
// separated by blank lines.
func writeItems(w io.Writer, items []Item, depth int) (int, error) {
	var (
		total   int
		written bool
	)
	for _, item := range items {
		if item.Media == nil && item.Rule == nil {
			continue
		}
		if written {
			n, err := fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
		written = true

		var (
			n   int
			err error
		)
		if item.Media != nil {
			n, err = writeMediaBlock(w, item.Media, depth)
		} else {
			n, err = writeRule(w, item.Rule, depth)
		}
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule, depth int) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent(depth), rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "%s%s: %s;\n", indent(depth+1), d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent(depth))
	total += n
	return total, err
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock, depth int) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s@media %s {\n", indent(depth), mb.Query)
	total += n
	if err != nil {
		return total, err
	}

	n, err = writeItems(w, mb.Items, depth+1)
	total += n
	if err != nil {
		return total, err
	}

	n, err = fmt.Fprintf(w, "%s}\n", indent(depth))
	total += n
	return total, err
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
