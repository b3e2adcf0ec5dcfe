package debug

import (
	"testing"
)

func TestTreeWriter_Empty(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "sheet", want: "sheet\n"},
		{name: "depth 1", depth: 1, format: "rule", want: "  rule\n"},
		{name: "depth 2", depth: 2, format: "media", want: "    media\n"},
		{name: "with formatting", depth: 1, format: "rule %q", args: []any{".row"}, want: "  rule \".row\"\n"},
		{name: "multiple args", depth: 0, format: "%s (%d nodes)", args: []any{"sheet", 5}, want: "sheet (5 nodes)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", depth: 0, label: "margin", value: "", want: "margin: \n"},
		{name: "with value", depth: 0, label: "margin", value: "0 $gutter", want: "margin: \"0 $gutter\"\n"},
		{name: "depth 2", depth: 2, label: "color", value: "#fff", want: "    color: \"#fff\"\n"},
		{name: "value with quotes", depth: 0, label: "content", value: `"x"`, want: "content: \"\\\"x\\\"\"\n"},
		{name: "value with newline", depth: 0, label: "v", value: "a\nb", want: "v: \"a\\nb\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Nested(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "sheet")
	tw.Line(1, "rule %q", "body")
	tw.Field(2, "margin", "0")
	tw.Line(2, "media %q", "print")

	want := "sheet\n  rule \"body\"\n    margin: \"0\"\n    media \"print\"\n"
	if got := tw.String(); got != want {
		t.Errorf("nested listing:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
