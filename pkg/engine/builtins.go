package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: add-object -> add_object
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
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

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a mesh handle. Builtins that transform a mesh mutate the
// wrapped value and return the same handle. A world handle tracks the
// World itself because AddObject swaps its underlying collection.
type sexpMesh struct {
	fc    *mesh.FaceCollection
	world *mesh.World
}

func (m *sexpMesh) mesh() *mesh.FaceCollection {
	if m.world != nil {
		return m.world.FaceCollection
	}
	return m.fc
}

func (m *sexpMesh) SexpString(ps *zygo.PrintState) string {
	fc := m.mesh()
	kind := "mesh"
	if m.world != nil {
		kind = "world"
	}
	return fmt.Sprintf("(%s %d points %d faces)", kind, fc.NumPoints(), fc.NumFaces())
}
func (m *sexpMesh) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
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

// toInt extracts an integer from a Sexp. Floats are accepted when integral.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toMesh extracts a mesh handle from a Sexp.
func toMesh(s zygo.Sexp) (*sexpMesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// kwFloat reads an optional numeric keyword into dst.
func (a kwArgs) kwFloat(name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// kwInt reads an optional integer keyword into dst.
func (a kwArgs) kwInt(name string, dst *int) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

// toSpec fills a kernel.Spec of the given kind from keyword arguments.
func toSpec(kind kernel.Kind, a kwArgs) (kernel.Spec, error) {
	spec := kernel.Spec{Kind: kind}
	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &spec.Width},
		{"height", &spec.Height},
		{"depth", &spec.Depth},
		{"radius", &spec.Radius},
		{"from", &spec.From},
		{"to", &spec.To},
	}
	for _, f := range floats {
		if err := a.kwFloat(f.name, f.dst); err != nil {
			return spec, err
		}
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"layers", &spec.Layers},
		{"r-layers", &spec.RLayers},
		{"h-layers", &spec.HLayers},
		{"splits", &spec.Splits},
	}
	for _, n := range ints {
		if err := a.kwInt(n.name, n.dst); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// axisAngles reads the :x :y :z keywords as three numbers, defaulting to 0.
func axisAngles(a kwArgs) (x, y, z float64, err error) {
	if err = a.kwFloat("x", &x); err != nil {
		return
	}
	if err = a.kwFloat("y", &y); err != nil {
		return
	}
	err = a.kwFloat("z", &z)
	return
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// shapeBuiltin returns a builtin that builds kind from keyword arguments.
func shapeBuiltin(kind kernel.Kind, noBase bool) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec, err := toSpec(kind, pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		spec.NoBase = noBase
		if v, ok := pa.kw["base"]; ok {
			b, ok := v.(*zygo.SexpBool)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: base: expected true or false, got %s", name, v.SexpString(nil))
			}
			spec.NoBase = !b.Val
		}
		fc, err := kernel.Build(spec)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &sexpMesh{fc: fc}, nil
	}
}

// registerBuiltins installs all scene DSL builtins into a zygomys environment.
// The builtins record emitted objects in the provided Scene.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	// -----------------------------------------------------------------------
	// Primitives: (box :width 2 :height 1 :depth 3), (sphere :radius 1 :splits 3), ...
	// -----------------------------------------------------------------------
	env.AddFunction("plane", shapeBuiltin(kernel.KindPlane, false))
	env.AddFunction("box", shapeBuiltin(kernel.KindBox, false))
	env.AddFunction("segment", shapeBuiltin(kernel.KindSegment, false))
	env.AddFunction("circle", shapeBuiltin(kernel.KindCircle, false))
	env.AddFunction("tube", shapeBuiltin(kernel.KindTube, false))
	env.AddFunction("cylinder", shapeBuiltin(kernel.KindCylinder, false))
	env.AddFunction("cone", shapeBuiltin(kernel.KindCone, false))

	// Note: registered as "cone_side" because zygomys does not support
	// hyphens in identifiers.
	env.AddFunction("cone_side", shapeBuiltin(kernel.KindCone, true))
	env.AddFunction("sphere", shapeBuiltin(kernel.KindSphere, false))

	// -----------------------------------------------------------------------
	// (shape :cylinder :radius 1 :height 2)
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a kind keyword")
		}
		kind, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: kind: %w", err)
		}
		return shapeBuiltin(kernel.Kind(kind), false)(env, kind, args[1:])
	})

	// -----------------------------------------------------------------------
	// (deg 90) -> radians
	// -----------------------------------------------------------------------
	env.AddFunction("deg", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("deg requires exactly 1 argument, got %d", len(args))
		}
		d, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deg: %w", err)
		}
		return &zygo.SexpFloat{Val: d * math.Pi / 180}, nil
	})

	// -----------------------------------------------------------------------
	// (move obj :x 1 :y 0 :z 2)
	// -----------------------------------------------------------------------
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("move requires a mesh as first argument")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		x, y, z, err := axisAngles(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		m.mesh().Move(x, y, z)
		return m, nil
	})

	// -----------------------------------------------------------------------
	// (rotate obj :x (deg 90) :z 1.5)  angles in radians
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a mesh as first argument")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		x, y, z, err := axisAngles(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		m.mesh().Rotate(geom.NewAngle(x), geom.NewAngle(y), geom.NewAngle(z))
		return m, nil
	})

	// -----------------------------------------------------------------------
	// (bake obj), (invert obj)
	// -----------------------------------------------------------------------
	env.AddFunction("bake", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("bake requires exactly 1 argument, got %d", len(args))
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bake: %w", err)
		}
		m.mesh().AcceptTransformations()
		return m, nil
	})

	env.AddFunction("invert", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("invert requires exactly 1 argument, got %d", len(args))
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("invert: %w", err)
		}
		m.mesh().Invert()
		return m, nil
	})

	// -----------------------------------------------------------------------
	// (merge a b ...) or (merge (list a b ...)) -> new mesh
	// -----------------------------------------------------------------------
	env.AddFunction("merge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("merge requires at least one mesh")
		}
		items := args
		if _, isMesh := args[0].(*sexpMesh); len(args) == 1 && !isMesh {
			list, err := sexpListToSlice(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("merge: %w", err)
			}
			items = list
		}
		if len(items) < 1 {
			return zygo.SexpNull, fmt.Errorf("merge requires at least one mesh")
		}
		parts := make([]*mesh.FaceCollection, 0, len(items))
		for i, item := range items {
			m, err := toMesh(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("merge: argument %d: %w", i, err)
			}
			parts = append(parts, m.mesh())
		}
		merged, err := mesh.MergeAll(parts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge: %w", err)
		}
		return &sexpMesh{fc: merged}, nil
	})

	// -----------------------------------------------------------------------
	// (world), (add-object w obj)
	//
	// Note: add-object is registered as "add_object"; the preprocessor
	// rewrites the kebab-case name.
	// -----------------------------------------------------------------------
	env.AddFunction("world", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("world takes no arguments, got %d", len(args))
		}
		return &sexpMesh{world: mesh.NewWorld()}, nil
	})

	env.AddFunction("add_object", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("add-object requires a world and a mesh, got %d arguments", len(args))
		}
		w, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-object: world: %w", err)
		}
		if w.world == nil {
			return zygo.SexpNull, fmt.Errorf("add-object: first argument must be a world")
		}
		obj, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-object: object: %w", err)
		}
		if err := w.world.AddObject(obj.mesh()); err != nil {
			return zygo.SexpNull, fmt.Errorf("add-object: %w", err)
		}
		return w, nil
	})

	// -----------------------------------------------------------------------
	// (point-count obj), (face-count obj)
	// -----------------------------------------------------------------------
	env.AddFunction("point_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("point-count requires exactly 1 argument, got %d", len(args))
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point-count: %w", err)
		}
		return &zygo.SexpInt{Val: int64(m.mesh().NumPoints())}, nil
	})

	env.AddFunction("face_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("face-count requires exactly 1 argument, got %d", len(args))
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face-count: %w", err)
		}
		return &zygo.SexpInt{Val: int64(m.mesh().NumFaces())}, nil
	})

	// -----------------------------------------------------------------------
	// (emit "name" obj) records a snapshot of obj in the scene
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("emit requires a name and a mesh, got %d arguments", len(args))
		}
		entryName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: name: %w", err)
		}
		m, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		if _, err := sc.Add(entryName, m.mesh().Clone()); err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		return m, nil
	})
}
