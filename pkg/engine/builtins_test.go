package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/facet/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 2)`,
			expect: `(sphere "__kw_radius" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(box :width 4 :depth 2)`,
			expect: `(box "__kw_width" 4 "__kw_depth" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(add-object w :r-layers 2)`,
			expect: `(add_object w "__kw_r-layers" 2)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:h-layers`,
			expect: `"__kw_h-layers"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalScene evaluates source and fails the test on any error.
func evalScene(t *testing.T, source string) *scene.Scene {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, sc)
	return sc
}

// evalFails evaluates source and returns the first eval error message.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Nil(t, sc)
	require.NotEmpty(t, evalErrs)
	return evalErrs[0].Message
}

// ---------------------------------------------------------------------------
// Primitive builtins
// ---------------------------------------------------------------------------

func TestPrimitiveCounts(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantPoints int
		wantFaces  int
	}{
		{"plane", `(plane :width 2 :height 3)`, 4, 2},
		{"box", `(box :width 1 :height 2 :depth 3)`, 8, 12},
		{"tube", `(tube :radius 1 :height 2 :r-layers 2 :h-layers 3)`, 48, 72},
		{"cylinder", `(cylinder :radius 5 :height 2 :r-layers 2 :h-layers 2)`, 50, 96},
		{"cone", `(cone :radius 5 :height 3 :layers 2)`, 26, 48},
		{"sphere", `(sphere :radius 1 :splits 2)`, 18, 32},
		{"generic shape", `(shape :sphere :radius 1 :splits 3)`, 66, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := evalScene(t, `(emit "obj" `+tt.source+`)`)
			require.Equal(t, 1, sc.Len())
			fc := sc.Entries[0].Mesh
			assert.Equal(t, tt.wantPoints, fc.NumPoints(), "NumPoints()")
			assert.Equal(t, tt.wantFaces, fc.NumFaces(), "NumFaces()")
		})
	}
}

func TestConeSideHasNoBase(t *testing.T) {
	sc := evalScene(t, `
(emit "full" (cone :radius 5 :height 3 :layers 2))
(emit "side" (cone-side :radius 5 :height 3 :layers 2))
(emit "open" (cone :radius 5 :height 3 :layers 2 :base false))
`)
	full := sc.Lookup("full").Mesh
	side := sc.Lookup("side").Mesh
	assert.Less(t, side.NumFaces(), full.NumFaces())
	assert.True(t, side.Equal(sc.Lookup("open").Mesh))
}

func TestCircleAndSegment(t *testing.T) {
	sc := evalScene(t, `
(emit "disc" (circle :radius 2 :layers 3))
(emit "wedge" (segment :radius 2 :layers 3 :from 0 :to (deg 90)))
`)
	assert.Greater(t, sc.Lookup("disc").Mesh.NumFaces(), sc.Lookup("wedge").Mesh.NumFaces())
}

// ---------------------------------------------------------------------------
// Transform builtins
// ---------------------------------------------------------------------------

func TestMoveIsPending(t *testing.T) {
	sc := evalScene(t, `
(def b (box :width 1 :height 1 :depth 1))
(move b :x 10)
(emit "b" b)
`)
	fc := sc.Lookup("b").Mesh
	tr := fc.Transform()
	assert.Equal(t, 10.0, tr.Move.X())

	// Stored points stay untouched until baked.
	min, _ := fc.Bounds()
	assert.InDelta(t, -0.5, min.X, 1e-9)
}

func TestBakeAppliesTransform(t *testing.T) {
	sc := evalScene(t, `
(def b (box :width 1 :height 1 :depth 1))
(bake (move b :z 5))
(emit "b" b)
`)
	fc := sc.Lookup("b").Mesh
	assert.True(t, fc.Transform().IsIdentity())
	min, max := fc.Bounds()
	assert.InDelta(t, 4.5, min.Z, 1e-9)
	assert.InDelta(t, 5.5, max.Z, 1e-9)
}

func TestRotateWithDeg(t *testing.T) {
	sc := evalScene(t, `
(def p (plane :width 1 :height 1))
(rotate p :z (deg 90))
(emit "p" p)
`)
	tr := sc.Lookup("p").Mesh.Transform()
	assert.InDelta(t, math.Pi/2, tr.Rotation[2].Value(), 1e-12)
	assert.True(t, tr.Rotation[0].IsZero())
}

func TestInvertFlipsFaces(t *testing.T) {
	sc := evalScene(t, `
(emit "up" (plane :width 1 :height 1))
(emit "down" (invert (plane :width 1 :height 1)))
`)
	up := sc.Lookup("up").Mesh.Faces()
	down := sc.Lookup("down").Mesh.Faces()
	require.Len(t, down, len(up))
	for i := range up {
		assert.Equal(t, up[i][0], down[i][0])
		assert.Equal(t, up[i][1], down[i][2])
		assert.Equal(t, up[i][2], down[i][1])
	}
}

func TestEmitSnapshotsMesh(t *testing.T) {
	sc := evalScene(t, `
(def b (box :width 1 :height 1 :depth 1))
(emit "before" b)
(move b :x 3)
(emit "after" b)
`)
	assert.True(t, sc.Lookup("before").Mesh.Transform().IsIdentity())
	assert.Equal(t, 3.0, sc.Lookup("after").Mesh.Transform().Move.X())
}

// ---------------------------------------------------------------------------
// Merge and world builtins
// ---------------------------------------------------------------------------

func TestMerge(t *testing.T) {
	sc := evalScene(t, `
(def a (plane :width 1 :height 1))
(def b (bake (move (plane :width 1 :height 1) :x 1)))
(emit "ab" (merge a b))
(emit "listed" (merge (list a b)))
`)
	// The planes share an edge, so two points collapse.
	assert.Equal(t, 6, sc.Lookup("ab").Mesh.NumPoints())
	assert.Equal(t, 4, sc.Lookup("ab").Mesh.NumFaces())
	assert.True(t, sc.Lookup("ab").Mesh.Equal(sc.Lookup("listed").Mesh))
}

func TestMergeIncompatibleTransforms(t *testing.T) {
	msg := evalFails(t, `
(def a (plane :width 1 :height 1))
(def b (move (plane :width 1 :height 1) :x 1))
(merge a b)
`)
	assert.Contains(t, msg, "merge")
}

func TestWorldAddObject(t *testing.T) {
	sc := evalScene(t, `
(def w (world))
(add-object w (move (box :width 1 :height 1 :depth 1) :x 5))
(add-object w (sphere :radius 1 :splits 1))
(emit "w" w)
`)
	fc := sc.Lookup("w").Mesh
	assert.Equal(t, 12+8, fc.NumFaces())
	_, max := fc.Bounds()
	assert.InDelta(t, 5.5, max.X, 1e-9)
}

func TestCounts(t *testing.T) {
	sc, evalErrs, err := NewEngine().Evaluate(`
(def s (sphere :radius 1 :splits 2))
(def n (+ (point-count s) (face-count s)))
(emit "s" s)
n
`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	assert.Equal(t, 1, sc.Len())
}

// ---------------------------------------------------------------------------
// Error reporting
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"negative radius", `(sphere :radius -1)`, "sphere"},
		{"bad keyword type", `(box :width "wide" :height 1 :depth 1)`, "width"},
		{"fractional count", `(sphere :radius 1 :splits 1.5)`, "splits"},
		{"oversized split count", `(sphere :radius 1 :splits 16)`, "exceeds the limit"},
		{"unknown kind", `(shape :torus :radius 1)`, "torus"},
		{"move without mesh", `(move 3 :x 1)`, "move"},
		{"duplicate emit", `(emit "a" (plane :width 1 :height 1)) (emit "a" (plane :width 1 :height 1))`, "duplicate"},
		{"add to non-world", `(add-object (plane :width 1 :height 1) (plane :width 1 :height 1))`, "world"},
		{"deg arity", `(deg)`, "deg"},
		{"emit outside directory", `(emit "../x" (plane :width 1 :height 1))`, "invalid entry name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.source)
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.contains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Regression: arithmetic and empty source still work with builtins present
// ---------------------------------------------------------------------------

func TestEmptySourceStillWorks(t *testing.T) {
	sc := evalScene(t, "")
	if sc.Len() != 0 {
		t.Errorf("expected empty scene, got %d entries", sc.Len())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	sc := evalScene(t, "(+ 1 2)")
	if sc.Len() != 0 {
		t.Errorf("expected empty scene, got %d entries", sc.Len())
	}
}
