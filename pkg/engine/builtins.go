package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lathser/pkg/kernel"
	"github.com/chazu/lathser/pkg/logging"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source into something zygomys reads:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keyword
//     arguments need no global symbols.
//  2. Kebab-case identifiers become snake_case; zygomys reads a hyphen
//     as subtraction.
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Values passed between builtins
// ---------------------------------------------------------------------------

type vec3 struct{ X, Y, Z float64 }

type sexpVec3 struct {
	vec vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return "(solid " + s.desc + ")"
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// arg returns keyword name if given, else the i'th positional argument.
func (a kwArgs) arg(name string, i int) (zygo.Sexp, bool) {
	if v, ok := a.kw[name]; ok {
		return v, true
	}
	if i >= 0 && i < len(a.positional) {
		return a.positional[i], true
	}
	return nil, false
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toSolid(s zygo.Sexp) (*sexpSolid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// number reads a required number argument.
func number(fn string, a kwArgs, name string, i int) (float64, error) {
	v, ok := a.arg(name, i)
	if !ok {
		return 0, fmt.Errorf("%s: missing %s", fn, name)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	return f, nil
}

// positive reads a required number argument that must be greater than zero.
func positive(fn string, a kwArgs, name string, i int) (float64, error) {
	f, err := number(fn, a, name, i)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s: %s must be positive, got %g", fn, name, f)
	}
	return f, nil
}

// xyz reads a vector given as (vec3 ...) at :name or positional i, or as
// :x :y :z keywords and positional numbers from i, which default to zero.
func xyz(fn string, a kwArgs, name string, i int) (vec3, error) {
	if v, ok := a.arg(name, i); ok {
		if _, isVec := v.(*sexpVec3); isVec {
			return toVec3(v)
		}
	}
	var out vec3
	for k, p := range []*float64{&out.X, &out.Y, &out.Z} {
		axis := string("xyz"[k])
		if _, ok := a.arg(axis, i+k); !ok {
			continue
		}
		f, err := number(fn, a, axis, i+k)
		if err != nil {
			return vec3{}, err
		}
		*p = f
	}
	return out, nil
}

// solids collects the solid operands of a boolean. A single list argument
// is spread.
func solids(fn string, args []zygo.Sexp) ([]*sexpSolid, error) {
	if len(args) == 1 {
		if items, err := sexpListToSlice(args[0]); err == nil {
			args = items
		}
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("%s requires at least two solids, got %d", fn, len(args))
	}
	out := make([]*sexpSolid, len(args))
	for i, s := range args {
		sol, err := toSolid(s)
		if err != nil {
			return nil, fmt.Errorf("%s: operand %d: %w", fn, i+1, err)
		}
		out[i] = sol
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// script is the state a running script builds up.
type script struct {
	kernel kernel.Kernel
	model  kernel.Solid
	name   string
}

type builtin func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the modeling builtins into env. Source must be
// preprocessed with preprocessSource so :keyword tokens are recognized.
//
// Dimensions are checked here so that invalid input surfaces as an
// EvalError rather than a kernel panic.
func registerBuiltins(env *zygo.Zlisp, s *script) {
	k := s.kernel
	add := func(name string, fn builtin) {
		env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			return fn(parseArgs(args), args)
		})
	}
	solid := func(sol kernel.Solid, format string, v ...any) zygo.Sexp {
		return &sexpSolid{solid: sol, desc: fmt.Sprintf(format, v...)}
	}

	// (vec3 1 2 3)
	add("vec3", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v vec3
		for i, p := range []*float64{&v.X, &v.Y, &v.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			*p = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// (box 1 2 3), (box :x 1 :y 2 :z 3) or (box (vec3 1 2 3))
	add("box", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		if v, ok := a.arg("size", 0); ok {
			if size, err := toVec3(v); err == nil {
				if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
					return zygo.SexpNull, fmt.Errorf("box: size must be positive, got %v", size)
				}
				return solid(k.Box(size.X, size.Y, size.Z), "box %g %g %g", size.X, size.Y, size.Z), nil
			}
		}
		var d [3]float64
		for i, name := range []string{"x", "y", "z"} {
			f, err := positive("box", a, name, i)
			if err != nil {
				return zygo.SexpNull, err
			}
			d[i] = f
		}
		return solid(k.Box(d[0], d[1], d[2]), "box %g %g %g", d[0], d[1], d[2]), nil
	})

	// (cylinder :height 4 :radius 1)
	add("cylinder", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		h, err := positive("cylinder", a, "height", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := positive("cylinder", a, "radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return solid(k.Cylinder(h, r), "cylinder %g %g", h, r), nil
	})

	// (cone :height 2 :r0 1 :r1 0.25)
	add("cone", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		h, err := positive("cone", a, "height", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		r0, err := number("cone", a, "r0", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		r1, err := number("cone", a, "r1", 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		if r0 < 0 || r1 < 0 || (r0 == 0 && r1 == 0) {
			return zygo.SexpNull, fmt.Errorf("cone: radii %g, %g must be non-negative and not both zero", r0, r1)
		}
		return solid(k.Cone(h, r0, r1), "cone %g %g %g", h, r0, r1), nil
	})

	// (sphere 1) or (sphere :radius 1)
	add("sphere", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := positive("sphere", a, "radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return solid(k.Sphere(r), "sphere %g", r), nil
	})

	boolean := func(name string, op func(a, b kernel.Solid) kernel.Solid) {
		add(name, func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
			operands, err := solids(name, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			acc := operands[0].solid
			descs := []string{operands[0].desc}
			for _, o := range operands[1:] {
				acc = op(acc, o.solid)
				descs = append(descs, o.desc)
			}
			return solid(acc, "%s [%s]", name, strings.Join(descs, "] [")), nil
		})
	}
	// (union a b ...), (difference a b ...), (intersection a b ...)
	boolean("union", k.Union)
	boolean("difference", k.Difference)
	boolean("intersection", k.Intersection)

	// (translate s (vec3 0 0 1)) or (translate s :z 1)
	add("translate", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(a.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid")
		}
		sol, err := toSolid(a.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		d, err := xyz("translate", a, "by", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return solid(k.Translate(sol.solid, d.X, d.Y, d.Z), "translate %g %g %g [%s]", d.X, d.Y, d.Z, sol.desc), nil
	})

	// (rotate s :x 90) with angles in degrees
	add("rotate", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(a.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a solid")
		}
		sol, err := toSolid(a.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		d, err := xyz("rotate", a, "by", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return solid(k.Rotate(sol.solid, d.X, d.Y, d.Z), "rotate %g %g %g [%s]", d.X, d.Y, d.Z, sol.desc), nil
	})

	// (model s :name "knight") declares the solid to cut. Repeated calls
	// union their solids.
	add("model", func(a kwArgs, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(a.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("model requires exactly one solid, got %d", len(a.positional))
		}
		sol, err := toSolid(a.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("model: %w", err)
		}
		if v, ok := a.kw["name"]; ok {
			name, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("model: name: %w", err)
			}
			s.name = name
		}
		if s.model == nil {
			s.model = sol.solid
		} else {
			logging.Logger().Debug("model declared more than once, taking the union")
			s.model = k.Union(s.model, sol.solid)
		}
		return sol, nil
	})
}
