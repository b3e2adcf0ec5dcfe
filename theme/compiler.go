package theme

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"lux/css"
	"lux/library"
	"lux/render"
	"lux/tree"
	"lux/vars"
)

// Result is a compiled theme.
type Result struct {
	CSS        string
	Stylesheet *css.Stylesheet
	Libraries  []string
	Variables  vars.Map
}

// Assembly is everything gathered for a theme before rendering.
type Assembly struct {
	Theme     Theme
	Libraries []*library.Entry
	Sheet     *tree.Sheet
	Variables vars.Map
}

// Compiler compiles themes against a library registry. It never modifies the
// registry so one compiler may serve concurrent calls.
type Compiler struct {
	reg *library.Registry
	log *zap.Logger
}

func NewCompiler(reg *library.Registry, log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{reg: reg, log: log.Named("theme")}
}

// Assemble selects libraries, resolves variables and composes the tree.
func (c *Compiler) Assemble(ctx context.Context, t Theme) (*Assembly, error) {
	a, err := c.variables(ctx, t)
	if err != nil {
		return nil, err
	}
	sheets := make([]*tree.Sheet, 0, len(a.Libraries)+1)
	for _, e := range a.Libraries {
		sheets = append(sheets, e.Sheet)
	}
	sheets = append(sheets, t.Sheet)
	if a.Sheet, err = tree.Compose(sheets...); err != nil {
		return nil, wrap(t, err)
	}
	return a, nil
}

// variables does the part of assembly which does not need the trees.
func (c *Compiler) variables(ctx context.Context, t Theme) (*Assembly, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	libs, err := c.reg.Select(t.Libraries)
	if err != nil {
		return nil, wrap(t, err)
	}
	var layers []vars.Map
	for _, e := range libs {
		layers = append(layers, e.Variables(t.Name)...)
	}
	vs, err := vars.Resolve(layers, t.Overrides)
	if err != nil {
		return nil, wrap(t, err)
	}
	return &Assembly{Theme: t, Libraries: libs, Variables: vs}, nil
}

// Compile renders the theme to stylesheet text.
func (c *Compiler) Compile(ctx context.Context, t Theme) (*Result, error) {
	a, err := c.Assemble(ctx, t)
	if err != nil {
		return nil, err
	}
	ss, err := render.Render(a.Sheet, a.Variables)
	if err != nil {
		return nil, wrap(t, err)
	}
	res := &Result{
		CSS:        ss.String(),
		Stylesheet: ss,
		Libraries:  libraryNames(a.Libraries),
		Variables:  a.Variables,
	}
	c.log.Debug("Theme compiled",
		zap.String("theme", t.Name),
		zap.Strings("libraries", res.Libraries),
		zap.Int("variables", len(res.Variables)),
		zap.Int("bytes", len(res.CSS)))
	return res, nil
}

// DumpVariables returns resolved variables of the theme as plain data. Trees
// are not composed so problems with skins or selectors do not matter here.
func (c *Compiler) DumpVariables(ctx context.Context, t Theme) (map[string]any, error) {
	a, err := c.variables(ctx, t)
	if err != nil {
		return nil, err
	}
	return a.Variables.Dump(), nil
}

// Dump returns either stylesheet text or, when dumpVariables is set, the
// resolved variables as indented JSON.
func (c *Compiler) Dump(ctx context.Context, t Theme, dumpVariables bool) ([]byte, error) {
	if dumpVariables {
		m, err := c.DumpVariables(ctx, t)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("unable to encode variables: %w", err)
		}
		return append(data, '\n'), nil
	}
	res, err := c.Compile(ctx, t)
	if err != nil {
		return nil, err
	}
	return []byte(res.CSS), nil
}

func libraryNames(entries []*library.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func wrap(t Theme, err error) error {
	return fmt.Errorf("theme %q: %w", t.Name, err)
}
