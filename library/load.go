package library

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"lux/css"
	"lux/tree"
)

// FromStylesheet converts a parsed stylesheet into a selector tree. Rules
// become top-level rules, @media blocks become media scopes. @import
// statements have no tree equivalent and are dropped.
func FromStylesheet(ss *css.Stylesheet) *tree.Sheet {
	sheet := tree.New()
	for _, n := range convertItems(ss.Items) {
		sheet.Add(n)
	}
	return sheet
}

func convertItems(items []css.Item) []tree.Node {
	var nodes []tree.Node
	for _, it := range items {
		switch {
		case it.Rule != nil:
			nodes = append(nodes, tree.Css(it.Rule.Selector, decls(it.Rule)...))
		case it.Media != nil:
			var children []tree.Item
			for _, n := range convertItems(it.Media.Items) {
				children = append(children, n)
			}
			nodes = append(nodes, tree.MediaQuery(it.Media.Query, children...))
		}
	}
	return nodes
}

func decls(r *css.Rule) []tree.Item {
	out := make([]tree.Item, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		out = append(out, tree.D(d.Property, d.Value))
	}
	return out
}

// LoadFile parses a stylesheet file into a selector tree. Parser warnings are
// logged, they do not fail loading.
func LoadFile(path string, log *zap.Logger) (*tree.Sheet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read library stylesheet: %w", err)
	}
	ss := css.NewParser(log).Parse(data, path)
	for _, w := range ss.Warnings {
		log.Warn("Library stylesheet problem", zap.String("file", path), zap.String("warning", w))
	}
	if imports := ss.Imports(); len(imports) > 0 {
		log.Warn("Library stylesheet imports are ignored", zap.String("file", path), zap.Strings("imports", imports))
	}
	return FromStylesheet(ss), nil
}
