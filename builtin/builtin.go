// Package builtin registers the stock libraries shipped with the program.
package builtin

import (
	"lux/library"
	"lux/tree"
	"lux/vars"
)

// Names of the stock libraries in registration order.
const (
	Base  = "base"
	Grid  = "grid"
	Table = "table"
)

// StripedRows is the skin striping table rows, declared by the table library.
const StripedRows = "tr:nth"

// Register adds stock libraries to reg.
func Register(reg *library.Registry) error {
	if err := reg.Register(Base, baseSheet(), baseDefaults(),
		library.ThemeDefaults("dark", vars.Map{
			"colors.bg":     vars.MustColor("#111"),
			"colors.fg":     vars.MustColor("#ddd"),
			"colors.accent": vars.MustColor("#4aa3ff"),
			"colors.muted":  vars.Lighten("colors.bg", 0.25),
		})); err != nil {
		return err
	}
	if err := reg.Register(Grid, gridSheet(), vars.Map{
		"grid.gutter":  vars.Number(10, "px"),
		"grid.columns": vars.Number(12, ""),
		"grid.max":     vars.Number(1140, "px"),
	}, library.Requires(Base)); err != nil {
		return err
	}
	return reg.Register(Table, tableSheet(), vars.Map{
		"table.stripe":  vars.Darken("colors.bg", 0.06),
		"table.border":  vars.Ref("colors.muted"),
		"table.padding": vars.Parse("${grid.gutter} / 2"),
	}, library.Requires(Base, Grid),
		library.ThemeDefaults("dark", vars.Map{
			"table.stripe": vars.Lighten("colors.bg", 0.08),
		}))
}

func baseDefaults() vars.Map {
	return vars.Map{
		"colors.bg":     vars.MustColor("#ffffff"),
		"colors.fg":     vars.MustColor("#222222"),
		"colors.accent": vars.MustColor("#0069d9"),
		"colors.muted":  vars.Darken("colors.bg", 0.2),
		"font.family":   vars.String(`-apple-system, "Segoe UI", Roboto, sans-serif`),
		"font.size":     vars.Number(16, "px"),
		"font.line":     vars.Number(1.5, ""),
		"screen.narrow": vars.Number(760, "px"),
	}
}

func baseSheet() *tree.Sheet {
	s := tree.New()
	s.Css("html", tree.D("font-size", "$font.size"))
	s.Css("body",
		tree.D("margin", "0"),
		tree.D("font-family", "$font.family"),
		tree.D("line-height", "$font.line"),
		tree.D("color", "$colors.fg"),
		tree.D("background", "$colors.bg"),
		tree.Css("a",
			tree.D("color", "$colors.accent"),
			tree.D("text-decoration", "none"),
			tree.Css("&:hover", tree.D("text-decoration", "underline"))),
		tree.Css("hr", tree.D("border", "0"), tree.D("border-top", "1px solid $colors.muted")))
	return s
}

func gridSheet() *tree.Sheet {
	s := tree.New()
	s.Css(".container",
		tree.D("max-width", "$grid.max"),
		tree.D("margin", "0 auto"),
		tree.D("padding", "0 $grid.gutter"))
	s.Css(".row",
		tree.D("display", "flex"),
		tree.D("flex-wrap", "wrap"),
		tree.D("margin", "0 calc(-1 * $grid.gutter)"),
		tree.Css("> .col", tree.D("flex", "1 0 0%"), tree.D("padding", "0 $grid.gutter")))
	s.Media("only screen and (max-width: ${screen.narrow})").
		Css(".row", tree.D("display", "block"))
	return s
}

func tableSheet() *tree.Sheet {
	s := tree.New()
	s.Skin(StripedRows,
		tree.Css("tr:nth-child(odd)", tree.D("background", "$table.stripe")),
		tree.Css("tr:nth-child(even)", tree.D("background", "$colors.bg")))
	s.Css("table",
		tree.D("width", "100%"),
		tree.D("border-collapse", "collapse"),
		tree.Css("th, td",
			tree.D("padding", "calc($table.padding)"),
			tree.D("border-bottom", "1px solid $table.border")),
		tree.Css("&.striped", tree.SkinRef(StripedRows)))
	s.Css("body",
		tree.MediaQuery("only screen and (max-width: ${screen.narrow})").
			Css(".bla", tree.SkinRef(StripedRows)).
			Css("table, thead, tbody, th, td, tr", tree.D("display", "block")))
	return s
}
