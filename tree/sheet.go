package tree

import (
	"strings"

	"lux/utils/debug"
)

// Sheet is the root of a selector tree together with the skins declared for
// it.
type Sheet struct {
	children []Node
	skins    []*Skin
}

// New creates an empty sheet.
func New() *Sheet {
	return &Sheet{}
}

// Css appends a new top-level rule and returns the sheet.
func (s *Sheet) Css(selector string, items ...Item) *Sheet {
	s.children = append(s.children, adopt(Css(selector, items...)))
	return s
}

// Add appends detached nodes at the top level.
func (s *Sheet) Add(nodes ...Node) *Sheet {
	for _, n := range nodes {
		s.children = append(s.children, adopt(n))
	}
	return s
}

// Media appends a top-level media scope and returns it for further building.
func (s *Sheet) Media(condition string, items ...Item) *Media {
	m := adopt(MediaQuery(condition, items...)).(*Media)
	s.children = append(s.children, m)
	return m
}

// Skin declares a named skin and returns it so its body can be extended.
// Declarations in the body apply to the selector where the skin is
// referenced.
func (s *Sheet) Skin(name string, items ...Item) *Skin {
	sk := &Skin{Name: name, owned: true}
	sk.Decls, sk.children = split(items)
	s.skins = append(s.skins, sk)
	return sk
}

// Children returns top-level nodes in declaration order.
func (s *Sheet) Children() []Node {
	return s.children
}

// Skins returns declared skins in declaration order.
func (s *Sheet) Skins() []*Skin {
	return s.skins
}

// SkinTable indexes declared skins by name. A name declared more than once is
// ambiguous.
func (s *Sheet) SkinTable() (map[string]*Skin, error) {
	table := make(map[string]*Skin, len(s.skins))
	for _, sk := range s.skins {
		if _, exists := table[sk.Name]; exists {
			return nil, &AmbiguousSkinError{Name: sk.Name}
		}
		table[sk.Name] = sk
	}
	return table, nil
}

// Compose concatenates sheets into a new one. Every sheet's top-level nodes
// stay separate subtrees, nothing is merged. Skins of all sheets are
// collected; the same skin name in two sheets is an AmbiguousSkinError.
func Compose(sheets ...*Sheet) (*Sheet, error) {
	out := New()
	seen := make(map[string]struct{})
	for _, sh := range sheets {
		if sh == nil {
			continue
		}
		out.children = append(out.children, sh.children...)
		for _, sk := range sh.skins {
			if _, exists := seen[sk.Name]; exists {
				return nil, &AmbiguousSkinError{Name: sk.Name}
			}
			seen[sk.Name] = struct{}{}
			out.skins = append(out.skins, sk)
		}
	}
	return out, nil
}

// Dump returns an indented listing of the sheet for debugging.
func (s *Sheet) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "sheet (%d nodes, %d skins)", len(s.children), len(s.skins))
	for _, n := range s.children {
		dumpNode(tw, 1, n)
	}
	for _, sk := range s.skins {
		tw.Line(1, "skin %q", sk.Name)
		dumpDecls(tw, 2, sk.Decls)
		for _, c := range sk.children {
			dumpNode(tw, 2, c)
		}
	}
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, depth int, n Node) {
	switch v := n.(type) {
	case *Rule:
		tw.Line(depth, "rule %q", v.Selector)
		dumpDecls(tw, depth+1, v.Decls)
	case *Media:
		tw.Line(depth, "media %q", v.Condition)
	case *Skin:
		tw.Line(depth, "skin-ref %q", v.Name)
	}
	for _, c := range n.Children() {
		dumpNode(tw, depth+1, c)
	}
}

func dumpDecls(tw *debug.TreeWriter, depth int, decls []Decl) {
	for _, d := range decls {
		tw.Field(depth, d.Property, d.Value)
	}
}

// Combine flattens a nested selector under its parent. Comma groups on either
// side expand to every combination; "&" is replaced by the parent selector,
// otherwise the descendant combinator joins both.
func Combine(parent, child string) string {
	child = strings.TrimSpace(child)
	parent = strings.TrimSpace(parent)
	if parent == "" {
		return strings.ReplaceAll(child, "&", "")
	}
	if child == "" {
		return parent
	}
	var out []string
	for _, c := range splitGroup(child) {
		for _, p := range splitGroup(parent) {
			if strings.Contains(c, "&") {
				out = append(out, strings.ReplaceAll(c, "&", p))
			} else {
				out = append(out, p+" "+c)
			}
		}
	}
	return strings.Join(out, ", ")
}

// splitGroup splits a selector list on top-level commas, leaving commas
// inside parentheses (":is(a, b)") alone.
func splitGroup(sel string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range sel {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(sel[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(sel[start:]))
}
