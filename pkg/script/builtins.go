package script

import (
	"fmt"
	"math"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// defaultDragSteps is the number of moves a drag is split into.
const defaultDragSteps = 10

// maxDragSteps caps the moves a single drag may issue.
const maxDragSteps = 10000

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys reads:
//
//  1. :keyword becomes the string "__kw_keyword", so keywords never clash
//     with script variables.
//  2. ; line comments become // comments.
//  3. kebab-case identifiers become snake_case, since zygomys reads a
//     hyphen as subtraction.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	b := []byte(source)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			if j < len(b) {
				j++
			}
			out.Write(b[i:j])
			i = j
		case c == ';':
			out.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out.WriteByte(b[i])
				i++
			}
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + strings.ReplaceAll(string(b[i+1:j]), "-", "_") + `"`)
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
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
// Argument helpers
// ---------------------------------------------------------------------------

// sexpVec3 carries a vector between builtins.
type sexpVec3 struct {
	v v3.Vec
}

func (s *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", s.v.X, s.v.Y, s.v.Z)
}
func (s *sexpVec3) Type() *zygo.RegisteredType { return nil }

// kwArgs holds a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates keyword arguments (marked by preprocessSource) from
// positional ones. A trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		if str, ok := args[i].(*zygo.SexpStr); ok && strings.HasPrefix(str.S, kwPrefix) {
			name := str.S[len(kwPrefix):]
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i++
			} else {
				result.kw[name] = zygo.SexpNull
			}
			continue
		}
		result.positional = append(result.positional, args[i])
	}
	return result
}

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// numbers extracts exactly n positional numbers for builtin name.
func numbers(name string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d numbers, got %d", name, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the gesture builtins into a zygomys environment.
// Every builtin records into b and returns nil.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		xyz, err := numbers("vec3", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{v: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (camera :eye (vec3 ..) :target (vec3 ..) :up (vec3 ..) :fov deg
	//         :width px :height px :near d)
	// Unset fields keep their previous value.
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs(args)
		if len(a.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("camera takes keyword arguments only")
		}
		cam := b.camera
		for kw, dst := range map[string]*v3.Vec{"eye": &cam.Eye, "target": &cam.Target, "up": &cam.Up} {
			if s, ok := a.kw[kw]; ok {
				v, err := toVec3(s)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("camera: %s: %w", kw, err)
				}
				*dst = v
			}
		}
		for kw, dst := range map[string]*float64{"width": &cam.Width, "height": &cam.Height, "near": &cam.Near} {
			if s, ok := a.kw[kw]; ok {
				f, err := toFloat64(s)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("camera: %s: %w", kw, err)
				}
				*dst = f
			}
		}
		if s, ok := a.kw["fov"]; ok {
			deg, err := toFloat64(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: fov: %w", err)
			}
			cam.FovY = deg * math.Pi / 180
		}
		if !cam.Valid() {
			return zygo.SexpNull, fmt.Errorf("camera: degenerate camera (eye %v, target %v, fov %g rad, %gx%g)",
				cam.Eye, cam.Target, cam.FovY, cam.Width, cam.Height)
		}
		b.camera = cam
		return zygo.SexpNull, nil
	})

	// (down x y)
	env.AddFunction("down", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		xy, err := numbers("down", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		b.pointer(CmdDown, xy[0], xy[1])
		return zygo.SexpNull, nil
	})

	// (move x y)
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		xy, err := numbers("move", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		b.pointer(CmdMove, xy[0], xy[1])
		return zygo.SexpNull, nil
	})

	// (drag x0 y0 x1 y1 :steps n) moves to the start point, then in n equal
	// steps to the end point.
	env.AddFunction("drag", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs(args)
		pts, err := numbers("drag", a.positional, 4)
		if err != nil {
			return zygo.SexpNull, err
		}
		steps := defaultDragSteps
		if s, ok := a.kw["steps"]; ok {
			f, err := toFloat64(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("drag: steps: %w", err)
			}
			if f < 1 || f > maxDragSteps || f != math.Trunc(f) {
				return zygo.SexpNull, fmt.Errorf("drag: steps must be a whole number in [1, %d], got %g", maxDragSteps, f)
			}
			steps = int(f)
		}
		b.pointer(CmdMove, pts[0], pts[1])
		for i := 1; i <= steps; i++ {
			t := float64(i) / float64(steps)
			b.pointer(CmdMove, pts[0]+t*(pts[2]-pts[0]), pts[1]+t*(pts[3]-pts[1]))
		}
		return zygo.SexpNull, nil
	})

	// (reset)
	env.AddFunction("reset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("reset takes no arguments, got %d", len(args))
		}
		b.reset()
		return zygo.SexpNull, nil
	})
}
