// Package tree provides the append-only selector tree used to declare style
// rules: plain rules, media scopes and skins (named, inlinable fragments).
//
// Trees are built with nested calls:
//
//	sheet := tree.New()
//	sheet.Css("body",
//		tree.D("margin", "0"),
//		tree.MediaQuery("only screen and (max-width: 760px)").
//			Css(".bla", tree.SkinRef("tr:nth")))
//
// Each Css call appends a new child and returns its receiver so calls can be
// chained. Nodes passed as items become owned by the parent; a node that
// already has an owner is deep copied instead of shared.
package tree

// Item is anything accepted by Css: a declaration or a child node.
type Item interface {
	item()
}

// Decl is a single property declaration. Value is an expression which may
// reference variables ($name, ${name}); substitution happens at render time.
type Decl struct {
	Property string
	Value    string
}

func (Decl) item() {}

// D creates a declaration.
func D(property, value string) Decl {
	return Decl{Property: property, Value: value}
}

// Node is a selector tree node. The set of implementations is closed: *Rule,
// *Media and *Skin.
type Node interface {
	Item
	node()
	Children() []Node
}

// Rule is a selector with declarations and nested nodes.
type Rule struct {
	Selector string
	Decls    []Decl
	children []Node
	owned    bool
}

// Media scopes its children by a media query condition. It does not add to
// the selector path.
type Media struct {
	Condition string
	children  []Node
	owned     bool
}

// Skin is a named fragment. Declared through Sheet.Skin it carries a body;
// placed in a tree (see SkinRef) it is a reference spliced in at render time.
type Skin struct {
	Name     string
	Decls    []Decl
	children []Node
	owned    bool
}

func (*Rule) item()  {}
func (*Media) item() {}
func (*Skin) item()  {}

func (*Rule) node()  {}
func (*Media) node() {}
func (*Skin) node()  {}

func (r *Rule) Children() []Node  { return r.children }
func (m *Media) Children() []Node { return m.children }
func (s *Skin) Children() []Node  { return s.children }

// Css creates a detached rule, to be passed as an item.
func Css(selector string, items ...Item) *Rule {
	r := &Rule{Selector: selector}
	r.Decls, r.children = split(items)
	return r
}

// MediaQuery creates a detached media scope, to be passed as an item.
func MediaQuery(condition string, items ...Item) *Media {
	m := &Media{Condition: condition}
	var decls []Decl
	decls, m.children = split(items)
	if len(decls) > 0 {
		// media scopes have no selector of their own, declarations go to the
		// enclosing selector
		m.children = append([]Node{&Rule{Selector: "&", Decls: decls, owned: true}}, m.children...)
	}
	return m
}

// SkinRef creates a reference to a skin declared elsewhere.
func SkinRef(name string) *Skin {
	return &Skin{Name: name}
}

// Css appends a new child rule and returns the receiver.
func (r *Rule) Css(selector string, items ...Item) *Rule {
	r.children = append(r.children, adopt(Css(selector, items...)))
	return r
}

// Add appends declarations and nodes to the rule itself.
func (r *Rule) Add(items ...Item) *Rule {
	decls, nodes := split(items)
	r.Decls = append(r.Decls, decls...)
	r.children = append(r.children, nodes...)
	return r
}

// Css appends a new child rule and returns the receiver.
func (m *Media) Css(selector string, items ...Item) *Media {
	m.children = append(m.children, adopt(Css(selector, items...)))
	return m
}

// Css appends a new child rule to the skin body and returns the receiver.
func (s *Skin) Css(selector string, items ...Item) *Skin {
	s.children = append(s.children, adopt(Css(selector, items...)))
	return s
}

// IsRef reports whether the skin is a bare reference without a body.
func (s *Skin) IsRef() bool {
	return len(s.Decls) == 0 && len(s.children) == 0
}

// split separates items into declarations and owned child nodes.
func split(items []Item) (decls []Decl, nodes []Node) {
	for _, it := range items {
		switch v := it.(type) {
		case Decl:
			decls = append(decls, v)
		case Node:
			nodes = append(nodes, adopt(v))
		}
	}
	return decls, nodes
}

// adopt marks n as owned, or returns a deep copy when n already belongs to
// another parent.
func adopt(n Node) Node {
	switch v := n.(type) {
	case *Rule:
		if v.owned {
			v = clone(v).(*Rule)
		}
		v.owned = true
		return v
	case *Media:
		if v.owned {
			v = clone(v).(*Media)
		}
		v.owned = true
		return v
	case *Skin:
		if v.owned {
			v = clone(v).(*Skin)
		}
		v.owned = true
		return v
	default:
		panic("tree: unexpected node type")
	}
}

func clone(n Node) Node {
	switch v := n.(type) {
	case *Rule:
		return &Rule{Selector: v.Selector, Decls: append([]Decl(nil), v.Decls...), children: cloneAll(v.children)}
	case *Media:
		return &Media{Condition: v.Condition, children: cloneAll(v.children)}
	case *Skin:
		return &Skin{Name: v.Name, Decls: append([]Decl(nil), v.Decls...), children: cloneAll(v.children)}
	default:
		panic("tree: unexpected node type")
	}
}

func cloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		c := clone(n)
		switch v := c.(type) {
		case *Rule:
			v.owned = true
		case *Media:
			v.owned = true
		case *Skin:
			v.owned = true
		}
		out[i] = c
	}
	return out
}
