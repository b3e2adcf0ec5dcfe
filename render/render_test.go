package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lux/css"
	"lux/tree"
	"lux/vars"
)

func resolved(t *testing.T, m vars.Map) vars.Map {
	t.Helper()
	vs, err := vars.Resolve([]vars.Map{m}, nil)
	require.NoError(t, err)
	return vs
}

func TestRender_VariableSubstitution(t *testing.T) {
	sheet := tree.New().Css(".row", tree.D("margin", "$gutter"))
	vs, err := vars.Resolve([]vars.Map{{"gutter": vars.Parse("10px")}}, vars.Map{"gutter": vars.Parse("20px")})
	require.NoError(t, err)

	out, err := String(sheet, vs)
	require.NoError(t, err)
	assert.Equal(t, ".row {\n  margin: 20px;\n}\n", out)
}

func TestRender_NestedSelectors(t *testing.T) {
	sheet := tree.New().Css("body",
		tree.D("margin", "0"),
		tree.Css("a",
			tree.D("color", "$link"),
			tree.Css("&:hover", tree.D("color", "red"))),
		tree.Css("h1, h2", tree.D("font-weight", "bold")))

	ss, err := Render(sheet, resolved(t, vars.Map{"link": vars.MustColor("#00f")}))
	require.NoError(t, err)

	var selectors []string
	for _, it := range ss.Items {
		require.NotNil(t, it.Rule)
		selectors = append(selectors, it.Rule.Selector)
	}
	assert.Equal(t, []string{"body", "body a", "body a:hover", "body h1, body h2"}, selectors)
	v, _ := ss.Items[1].Rule.Get("color")
	assert.Equal(t, "#00f", v)
}

func TestRender_MediaWrapsFlattenedRules(t *testing.T) {
	sheet := tree.New().Css("body",
		tree.MediaQuery("only screen and (max-width: 760px)").
			Css(".a", tree.D("display", "none")).
			Css(".b", tree.D("display", "block")).
			Css(".c", tree.D("margin", "0"), tree.Css("p", tree.D("margin", "1px"))))

	ss, err := Render(sheet, vars.Map{})
	require.NoError(t, err)

	require.Len(t, ss.Items, 1, "body has no declarations, only the media block is emitted")
	mb := ss.Items[0].Media
	require.NotNil(t, mb)
	assert.Equal(t, "only screen and (max-width: 760px)", mb.Query)
	require.Len(t, mb.Items, 4)
	assert.Equal(t, "body .a", mb.Items[0].Rule.Selector)
	assert.Equal(t, "body .c p", mb.Items[3].Rule.Selector)

	out := ss.String()
	assert.Equal(t, 1, strings.Count(out, "@media"), "one wrapper for sibling rules")
}

func TestRender_MediaDeclarationsApplyToEnclosingSelector(t *testing.T) {
	sheet := tree.New().Css(".nav", tree.MediaQuery("print", tree.D("display", "none")))

	ss, err := Render(sheet, vars.Map{})
	require.NoError(t, err)
	require.Len(t, ss.Items, 1)
	assert.Equal(t, ".nav", ss.Items[0].Media.Items[0].Rule.Selector)
}

func TestRender_NestedMedia(t *testing.T) {
	sheet := tree.New()
	sheet.Media("screen").
		Css(".a", tree.D("x", "1"), tree.MediaQuery("(min-width: 1px)").Css(".b", tree.D("y", "2")))

	ss, err := Render(sheet, vars.Map{})
	require.NoError(t, err)
	outer := ss.Items[0].Media
	require.NotNil(t, outer)
	require.Len(t, outer.Items, 2)
	inner := outer.Items[1].Media
	require.NotNil(t, inner)
	assert.Equal(t, ".a .b", inner.Items[0].Rule.Selector)
}

func TestRender_SkinSplice(t *testing.T) {
	sheet := tree.New()
	sheet.Skin("tr:nth",
		tree.D("border-collapse", "collapse"),
		tree.Css("tr:nth-child(odd)", tree.D("background", "$stripe")))
	sheet.Css("body",
		tree.MediaQuery("only screen and (max-width: 760px)").
			Css(".bla", tree.SkinRef("tr:nth")))

	out, err := String(sheet, resolved(t, vars.Map{"stripe": vars.MustColor("#eee")}))
	require.NoError(t, err)
	assert.Contains(t, out, "tr:nth")
	assert.Contains(t, out, "body .bla tr:nth-child(odd) {\n    background: #eee;")
	assert.Contains(t, out, "body .bla {\n    border-collapse: collapse;")
}

func TestRender_SkinSpliceEqualsManualInline(t *testing.T) {
	vs := resolved(t, vars.Map{"c": vars.MustColor("#123"), "gap": vars.Parse("2px")})

	withRef := tree.New()
	withRef.Skin("card", tree.D("padding", "$gap"), tree.Css(".title", tree.D("color", "$c")))
	withRef.Css(".panel", tree.D("margin", "0"), tree.SkinRef("card"))

	inline := tree.New().Css(".panel",
		tree.D("margin", "0"),
		tree.D("padding", "$gap"),
		tree.Css(".title", tree.D("color", "$c")))

	a, err := String(withRef, vs)
	require.NoError(t, err)
	b, err := String(inline, vs)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestRender_KeepsSourceOrder(t *testing.T) {
	sheet := tree.New().
		Css(".a", tree.D("color", "red")).
		Css(".b", tree.D("color", "blue")).
		Css(".a", tree.D("color", "green"))

	got, err := String(sheet, vars.Map{})
	require.NoError(t, err)
	assert.Equal(t, ".a {\n  color: red;\n}\n\n.b {\n  color: blue;\n}\n\n.a {\n  color: green;\n}\n", got)
}

func TestRender_AdjacentSameSelectorFolds(t *testing.T) {
	sheet := tree.New().
		Css(".row", tree.D("margin", "0"), tree.D("color", "red")).
		Css(".row", tree.D("margin", "1px"))

	ss, err := Render(sheet, vars.Map{})
	require.NoError(t, err)
	require.Len(t, ss.Items, 1)
	row := ss.Items[0].Rule
	require.Len(t, row.Declarations, 2)
	assert.Equal(t, "color", row.Declarations[0].Property)
	assert.Equal(t, "margin", row.Declarations[1].Property)
	assert.Equal(t, "1px", row.Declarations[1].Value)
}

func TestRender_ComposedLibrariesConcatenate(t *testing.T) {
	lib1 := tree.New().Css(".row", tree.D("margin", "0"))
	lib2 := tree.New().
		Css(".col", tree.D("flex", "1")).
		Css(".row", tree.D("padding", "2px"))

	composed, err := tree.Compose(lib1, lib2)
	require.NoError(t, err)
	ss, err := Render(composed, vars.Map{})
	require.NoError(t, err)

	require.Len(t, ss.Items, 3)
	var selectors []string
	for _, it := range ss.Items {
		selectors = append(selectors, it.Rule.Selector)
	}
	assert.Equal(t, []string{".row", ".col", ".row"}, selectors)
	assert.Equal(t, []css.Declaration{{Property: "margin", Value: "0"}}, ss.Items[0].Rule.Declarations)
	assert.Equal(t, []css.Declaration{{Property: "padding", Value: "2px"}}, ss.Items[2].Rule.Declarations)
}

func TestRender_Deterministic(t *testing.T) {
	build := func() *tree.Sheet {
		s := tree.New()
		s.Skin("k", tree.Css("i", tree.D("z", "$v")))
		for _, sel := range []string{".a", ".b", ".c", ".d", ".e"} {
			s.Css(sel, tree.D("v", "$v"), tree.SkinRef("k"), tree.MediaQuery("print").Css("p", tree.D("q", "1")))
		}
		return s
	}
	vs := resolved(t, vars.Map{"v": vars.Parse("1em")})

	first, err := String(build(), vs)
	require.NoError(t, err)
	for range 10 {
		again, err := String(build(), vs)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestRender_UnknownVariable(t *testing.T) {
	sheet := tree.New().Css(".row", tree.D("margin", "$nope"))

	_, err := Render(sheet, vars.Map{})

	var uerr *vars.UnknownVariableError
	require.True(t, errors.As(err, &uerr), "got %v", err)
	assert.Equal(t, "nope", uerr.Name)
	assert.Contains(t, uerr.Referrer, ".row")
}

func TestRender_UnknownSkin(t *testing.T) {
	sheet := tree.New().Css(".row", tree.SkinRef("missing"))

	_, err := Render(sheet, vars.Map{})

	var serr *tree.UnknownSkinError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, "missing", serr.Name)
	assert.Equal(t, ".row", serr.Selector)
}

func TestRender_CircularSkin(t *testing.T) {
	sheet := tree.New()
	sheet.Skin("a", tree.Css("x", tree.SkinRef("b")))
	sheet.Skin("b", tree.SkinRef("a"))
	sheet.Css(".root", tree.SkinRef("a"))

	_, err := Render(sheet, vars.Map{})

	var cerr *tree.CircularSkinError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, []string{"a", "b", "a"}, cerr.Cycle)
}

func TestRender_AmbiguousSkin(t *testing.T) {
	sheet := tree.New()
	sheet.Skin("a")
	sheet.Skin("a")

	_, err := Render(sheet, vars.Map{})

	var aerr *tree.AmbiguousSkinError
	require.True(t, errors.As(err, &aerr), "got %v", err)
}

func TestRender_TopLevelSkinDeclarations(t *testing.T) {
	sheet := tree.New()
	sheet.Skin("loose", tree.D("color", "red"))
	sheet.Add(tree.SkinRef("loose"))

	_, err := Render(sheet, vars.Map{})
	require.ErrorIs(t, err, ErrDeclarationOutsideRule)
}

func TestRender_NoPartialOutputOnError(t *testing.T) {
	sheet := tree.New().
		Css(".ok", tree.D("margin", "0")).
		Css(".bad", tree.D("margin", "$nope"))

	ss, err := Render(sheet, vars.Map{})
	require.Error(t, err)
	assert.Nil(t, ss)
}

func TestRender_MediaConditionVariables(t *testing.T) {
	sheet := tree.New()
	sheet.Media("only screen and (max-width: ${narrow})").Css(".row", tree.D("display", "block"))

	ss, err := Render(sheet, resolved(t, vars.Map{"narrow": vars.Parse("760px")}))
	require.NoError(t, err)
	require.Len(t, ss.Items, 1)
	assert.Equal(t, "only screen and (max-width: 760px)", ss.Items[0].Media.Query)

	_, err = Render(sheet, vars.Map{})
	var uerr *vars.UnknownVariableError
	require.True(t, errors.As(err, &uerr), "got %v", err)
}
