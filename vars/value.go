// Package vars implements the style variable store: typed values, layered
// merging of library defaults and theme overrides, and transitive reference
// resolution.
package vars

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Kind tells which alternative a Value holds.
type Kind int

const (
	KindString Kind = iota // Plain text, may embed $references
	KindNumber             // Number with optional unit: 10, 1.5em, 50%
	KindColor              // Color: #fff, #1e1f29
	KindRef                // Reference to another variable
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindRef:
		return "reference"
	default:
		return "unknown"
	}
}

// transform derives a new value from the resolved target of a reference.
type transform struct {
	name string
	fn   func(Value) (Value, error)
}

// Value is a single style variable value. The zero Value is an empty string.
type Value struct {
	kind  Kind
	text  string // verbatim source text when known
	num   float64
	unit  string
	color colorful.Color
	ref   string
	xform *transform
}

// String creates a text value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number creates a numeric value with optional unit ("px", "em", "%").
func Number(n float64, unit string) Value {
	return Value{kind: KindNumber, num: n, unit: unit}
}

// Color creates a color value from a hex notation (#rgb or #rrggbb). The
// original spelling is kept for output.
func Color(hex string) (Value, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Value{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return Value{kind: KindColor, text: hex, color: c}, nil
}

// MustColor is like Color but panics on malformed input. Intended for
// package level library defaults.
func MustColor(hex string) Value {
	v, err := Color(hex)
	if err != nil {
		panic(err)
	}
	return v
}

// FromColor wraps a computed color.
func FromColor(c colorful.Color) Value {
	return Value{kind: KindColor, color: c.Clamped()}
}

// Ref creates a reference to another variable.
func Ref(name string) Value {
	return Value{kind: KindRef, ref: name}
}

// Lighten references a color variable and blends it towards white by amount
// (0..1) in Lab space.
func Lighten(name string, amount float64) Value {
	return blendRef(name, "lighten", colorful.Color{R: 1, G: 1, B: 1}, amount)
}

// Darken references a color variable and blends it towards black by amount
// (0..1) in Lab space.
func Darken(name string, amount float64) Value {
	return blendRef(name, "darken", colorful.Color{}, amount)
}

func blendRef(name, op string, to colorful.Color, amount float64) Value {
	return Value{kind: KindRef, ref: name, xform: &transform{
		name: fmt.Sprintf("%s($%s, %s%%)", op, name, strconv.FormatFloat(amount*100, 'f', -1, 64)),
		fn: func(v Value) (Value, error) {
			if v.kind != KindColor {
				return Value{}, fmt.Errorf("%s expects a color, got %s %q", op, v.kind, v.String())
			}
			return FromColor(v.color.BlendLab(to, amount)), nil
		},
	}}
}

var (
	refPattern    = regexp.MustCompile(`\$(?:\{([A-Za-z_][\w.-]*)\}|([A-Za-z_][\w-]*(?:\.[A-Za-z_][\w-]*)*))`)
	numberPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)([a-zA-Z]+|%)?$`)
)

// Parse interprets text the way it would appear in a configuration file or
// on the command line: "$name" is a reference, "#abc" a color, "10px" a
// number, anything else a string.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	if m := refPattern.FindStringSubmatchIndex(s); m != nil && m[0] == 0 && m[1] == len(s) {
		return Ref(refName(s, m))
	}
	if strings.HasPrefix(s, "#") {
		if v, err := Color(s); err == nil {
			return v
		}
	}
	if m := numberPattern.FindStringSubmatch(s); m != nil {
		numText := strings.TrimSuffix(s, m[1])
		if n, err := strconv.ParseFloat(numText, 64); err == nil {
			return Value{kind: KindNumber, text: s, num: n, unit: m[1]}
		}
	}
	return String(s)
}

// refName extracts the variable name from a refPattern match.
func refName(s string, m []int) string {
	if m[2] >= 0 {
		return s[m[2]:m[3]]
	}
	return s[m[4]:m[5]]
}

func (v Value) Kind() Kind {
	return v.kind
}

// RefName returns the referenced variable name for KindRef values.
func (v Value) RefName() string {
	return v.ref
}

// Float returns the numeric part of a number value.
func (v Value) Float() float64 {
	return v.num
}

// Unit returns the unit of a number value.
func (v Value) Unit() string {
	return v.unit
}

// Colorful returns the color of a color value.
func (v Value) Colorful() colorful.Color {
	return v.color
}

// String renders the value as it should appear in stylesheet text.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		if v.text != "" {
			return v.text
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64) + v.unit
	case KindColor:
		if v.text != "" {
			return v.text
		}
		return v.color.Hex()
	case KindRef:
		if v.xform != nil {
			return v.xform.name
		}
		return "$" + v.ref
	default:
		return v.text
	}
}

// hasRefs reports whether a string value embeds references.
func (v Value) hasRefs() bool {
	return v.kind == KindString && refPattern.MatchString(v.text)
}
