// Package render flattens a selector tree into stylesheet text, substituting
// resolved variables and splicing skins.
package render

import (
	"errors"
	"fmt"
	"slices"

	"lux/css"
	"lux/tree"
	"lux/vars"
)

// ErrDeclarationOutsideRule is returned when declarations end up with no
// selector, e.g. a skin carrying declarations referenced at the top level.
var ErrDeclarationOutsideRule = errors.New("declarations outside of any selector")

// Render walks the sheet depth first and produces a flat stylesheet. All
// variables referenced by declarations must be present in vs. Rendering
// stops at the first error and returns no partial output.
func Render(sheet *tree.Sheet, vs vars.Map) (*css.Stylesheet, error) {
	skins, err := sheet.SkinTable()
	if err != nil {
		return nil, err
	}
	r := &renderer{vars: vs, skins: skins}
	out := newBlock()
	for _, n := range sheet.Children() {
		if err := r.walk(n, "", out); err != nil {
			return nil, err
		}
	}
	return &css.Stylesheet{Items: out.items}, nil
}

// String renders the sheet to text.
func String(sheet *tree.Sheet, vs vars.Map) (string, error) {
	ss, err := Render(sheet, vs)
	if err != nil {
		return "", err
	}
	return ss.String(), nil
}

type renderer struct {
	vars      vars.Map
	skins     map[string]*tree.Skin
	expanding []string // skins being spliced, innermost last
}

// block is an output container: the stylesheet itself or one @media block.
// Items keep traversal order, declarations for the selector of the rule
// emitted last are folded into it.
type block struct {
	items []css.Item
}

func newBlock() *block {
	return &block{}
}

func (b *block) rule(selector string) *css.Rule {
	if n := len(b.items); n > 0 {
		if last := b.items[n-1].Rule; last != nil && last.Selector == selector {
			return last
		}
	}
	r := &css.Rule{Selector: selector}
	b.items = append(b.items, css.Item{Rule: r})
	return r
}

func (r *renderer) walk(n tree.Node, selector string, out *block) error {
	switch v := n.(type) {
	case *tree.Rule:
		flat := tree.Combine(selector, v.Selector)
		if err := r.declare(flat, v.Decls, out); err != nil {
			return err
		}
		return r.walkAll(v.Children(), flat, out)

	case *tree.Media:
		query, err := r.vars.Interpolate(v.Condition, "@media "+v.Condition)
		if err != nil {
			return err
		}
		inner := newBlock()
		if err := r.walkAll(v.Children(), selector, inner); err != nil {
			return err
		}
		if len(inner.items) > 0 {
			out.items = append(out.items, css.Item{Media: &css.MediaBlock{Query: query, Items: inner.items}})
		}
		return nil

	case *tree.Skin:
		def, ok := r.skins[v.Name]
		if !ok {
			return &tree.UnknownSkinError{Name: v.Name, Selector: selector}
		}
		if slices.Contains(r.expanding, v.Name) {
			at := slices.Index(r.expanding, v.Name)
			return &tree.CircularSkinError{Cycle: append(slices.Clone(r.expanding[at:]), v.Name)}
		}
		r.expanding = append(r.expanding, v.Name)
		defer func() { r.expanding = r.expanding[:len(r.expanding)-1] }()

		if err := r.declare(selector, def.Decls, out); err != nil {
			return err
		}
		return r.walkAll(def.Children(), selector, out)

	default:
		panic(fmt.Sprintf("render: unexpected node type %T", n))
	}
}

func (r *renderer) walkAll(nodes []tree.Node, selector string, out *block) error {
	for _, c := range nodes {
		if err := r.walk(c, selector, out); err != nil {
			return err
		}
	}
	return nil
}

// declare substitutes variables and appends declarations to the rule for
// selector in out.
func (r *renderer) declare(selector string, decls []tree.Decl, out *block) error {
	if len(decls) == 0 {
		return nil
	}
	if selector == "" {
		return fmt.Errorf("%w: %s", ErrDeclarationOutsideRule, decls[0].Property)
	}
	rule := out.rule(selector)
	for _, d := range decls {
		value, err := r.vars.Interpolate(d.Value, selector+" { "+d.Property+" }")
		if err != nil {
			return err
		}
		rule.Set(d.Property, value)
	}
	return nil
}
