package vars

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Map binds variable names to values.
type Map map[string]Value

// Names returns variable names in natural order ("gap2" before "gap10").
func (m Map) Names() []string {
	names := slices.Collect(maps.Keys(m))
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return names
}

// Clone returns a shallow copy, values are immutable.
func (m Map) Clone() Map {
	if m == nil {
		return Map{}
	}
	return maps.Clone(m)
}

// Merge layers variable maps: defaults in order, later ones winning on name
// collision, then overrides on top of everything. Inputs are not modified.
func Merge(defaults []Map, overrides Map) Map {
	merged := make(Map)
	for _, layer := range defaults {
		maps.Copy(merged, layer)
	}
	maps.Copy(merged, overrides)
	return merged
}

// Resolve merges defaults and overrides (see Merge) and resolves every
// reference transitively. The result contains no KindRef values and no string
// values with embedded references.
func Resolve(defaults []Map, overrides Map) (Map, error) {
	r := resolver{
		src:    Merge(defaults, overrides),
		done:   make(Map),
		active: make(map[string]int),
	}
	// walk in stable order so that the reported cycle does not depend on map
	// iteration
	for _, name := range r.src.Names() {
		if _, err := r.resolve(name, ""); err != nil {
			return nil, err
		}
	}
	return r.done, nil
}

type resolver struct {
	src    Map
	done   Map
	path   []string       // names currently being resolved
	active map[string]int // name -> index in path
}

func (r *resolver) resolve(name, referrer string) (Value, error) {
	if v, ok := r.done[name]; ok {
		return v, nil
	}
	if at, ok := r.active[name]; ok {
		cycle := append(slices.Clone(r.path[at:]), name)
		return Value{}, &CircularVariableError{Cycle: cycle}
	}
	v, ok := r.src[name]
	if !ok {
		return Value{}, &UnknownVariableError{Name: name, Referrer: referrer}
	}

	r.active[name] = len(r.path)
	r.path = append(r.path, name)
	defer func() {
		r.path = r.path[:len(r.path)-1]
		delete(r.active, name)
	}()

	by := "variable $" + name
	switch {
	case v.kind == KindRef:
		target, err := r.resolve(v.ref, by)
		if err != nil {
			return Value{}, err
		}
		if v.xform != nil {
			if target, err = v.xform.fn(target); err != nil {
				return Value{}, fmt.Errorf("variable $%s: %w", name, err)
			}
		}
		v = target
	case v.hasRefs():
		text, err := interpolate(v.text, func(ref string) (Value, error) {
			return r.resolve(ref, by)
		})
		if err != nil {
			return Value{}, err
		}
		v = String(text)
	}
	r.done[name] = v
	return v, nil
}

// Interpolate substitutes $name and ${name} references in a value expression
// using already resolved variables. Referrer describes the expression owner
// for error reporting.
func (m Map) Interpolate(expr, referrer string) (string, error) {
	return interpolate(expr, func(name string) (Value, error) {
		v, ok := m[name]
		if !ok {
			return Value{}, &UnknownVariableError{Name: name, Referrer: referrer}
		}
		return v, nil
	})
}

func interpolate(expr string, lookup func(string) (Value, error)) (string, error) {
	matches := refPattern.FindAllStringSubmatchIndex(expr, -1)
	if len(matches) == 0 {
		return expr, nil
	}
	var b strings.Builder
	b.Grow(len(expr))
	last := 0
	for _, m := range matches {
		v, err := lookup(refName(expr, m))
		if err != nil {
			return "", err
		}
		b.WriteString(expr[last:m[0]])
		b.WriteString(v.String())
		last = m[1]
	}
	b.WriteString(expr[last:])
	return b.String(), nil
}

// Dump converts resolved variables to plain data suitable for JSON or YAML
// encoding. Unitless numbers stay numbers, everything else becomes text.
func (m Map) Dump() map[string]any {
	out := make(map[string]any, len(m))
	for name, v := range m {
		if v.kind == KindNumber && v.unit == "" {
			out[name] = v.num
			continue
		}
		out[name] = v.String()
	}
	return out
}

// FromNested flattens a hierarchical mapping (as decoded from YAML or JSON)
// into dotted variable names: {"colors": {"accent": "#fff"}} becomes
// "colors.accent". Leaf strings go through Parse.
func FromNested(data map[string]any) (Map, error) {
	m := make(Map)
	if err := flatten(m, "", data); err != nil {
		return nil, err
	}
	return m, nil
}

func flatten(dst Map, prefix string, data map[string]any) error {
	for key, raw := range data {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch val := raw.(type) {
		case map[string]any:
			if err := flatten(dst, name, val); err != nil {
				return err
			}
		case string:
			dst[name] = Parse(val)
		case int:
			dst[name] = Number(float64(val), "")
		case int64:
			dst[name] = Number(float64(val), "")
		case float64:
			dst[name] = Number(val, "")
		case Value:
			dst[name] = val
		default:
			return fmt.Errorf("variable %q: unsupported value type %T", name, raw)
		}
	}
	return nil
}
