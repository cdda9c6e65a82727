// Package kernel describes primitives as data and turns them into meshes.
// A Spec names a primitive kind and its parameters; a Kernel builds the
// mesh. The procedural kernel in this package runs the exact generators
// from pkg/shape, while pkg/kernel/sdfx approximates the same solids from
// signed distance functions for cross-checking.
package kernel

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/shape"
)

// ErrUnknownShape is returned for a Spec whose Kind is not registered.
var ErrUnknownShape = errors.New("kernel: unknown shape")

// Kind names a primitive generator.
type Kind string

const (
	KindPlane    Kind = "plane"
	KindBox      Kind = "box"
	KindSegment  Kind = "segment"
	KindCircle   Kind = "circle"
	KindTube     Kind = "tube"
	KindCylinder Kind = "cylinder"
	KindCone     Kind = "cone"
	KindSphere   Kind = "sphere"
)

// Spec is a serializable primitive description. Only the fields used by
// Kind are read; zero layer counts default to 1. Angles are in radians.
type Spec struct {
	Kind    Kind    `json:"kind" toml:"kind"`
	Width   float64 `json:"width,omitempty" toml:"width"`
	Height  float64 `json:"height,omitempty" toml:"height"`
	Depth   float64 `json:"depth,omitempty" toml:"depth"`
	Radius  float64 `json:"radius,omitempty" toml:"radius"`
	From    float64 `json:"from,omitempty" toml:"from"`
	To      float64 `json:"to,omitempty" toml:"to"`
	Layers  int     `json:"layers,omitempty" toml:"layers"`
	RLayers int     `json:"r_layers,omitempty" toml:"r_layers"`
	HLayers int     `json:"h_layers,omitempty" toml:"h_layers"`
	Splits  int     `json:"splits,omitempty" toml:"splits"`
	// NoBase builds only the lateral surface of a cone.
	NoBase bool `json:"no_base,omitempty" toml:"no_base"`
}

// Upper bounds on subdivision counts accepted by Build. Face counts grow
// with the product of the layer counts and fourfold per sphere split.
const (
	MaxLayers = 128
	MaxSplits = 8
)

// checkLimits rejects subdivision counts that would exhaust memory.
func (s Spec) checkLimits() error {
	counts := []struct {
		name  string
		n     int
		limit int
	}{
		{"layers", s.Layers, MaxLayers},
		{"r_layers", s.RLayers, MaxLayers},
		{"h_layers", s.HLayers, MaxLayers},
		{"splits", s.Splits, MaxSplits},
	}
	for _, c := range counts {
		if c.n > c.limit {
			return fmt.Errorf("%w: %s %d exceeds the limit of %d", shape.ErrInvalidArgument, c.name, c.n, c.limit)
		}
	}
	return nil
}

func orOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// Kernel builds a mesh for a primitive description.
type Kernel interface {
	Build(s Spec) (*mesh.FaceCollection, error)
}

// builder builds one primitive kind from a Spec.
type builder func(s Spec) (*mesh.FaceCollection, error)

func segmentFaces(seg *shape.Segment, err error) (*mesh.FaceCollection, error) {
	if err != nil {
		return nil, err
	}
	return seg.Faces, nil
}

var builders = map[Kind]builder{
	KindPlane: func(s Spec) (*mesh.FaceCollection, error) {
		return shape.Plane(s.Width, s.Height)
	},
	KindBox: func(s Spec) (*mesh.FaceCollection, error) {
		return shape.Box(s.Width, s.Height, s.Depth)
	},
	KindSegment: func(s Spec) (*mesh.FaceCollection, error) {
		return segmentFaces(shape.NewCircleSegment(geom.NewAngle(s.From), geom.NewAngle(s.To), s.Radius, orOne(s.Layers)))
	},
	KindCircle: func(s Spec) (*mesh.FaceCollection, error) {
		return segmentFaces(shape.NewCircle(s.Radius, orOne(s.Layers)))
	},
	KindTube: func(s Spec) (*mesh.FaceCollection, error) {
		return shape.Tube(s.Radius, s.Height, orOne(s.RLayers), orOne(s.HLayers))
	},
	KindCylinder: func(s Spec) (*mesh.FaceCollection, error) {
		return shape.Cylinder(s.Radius, s.Height, orOne(s.RLayers), orOne(s.HLayers))
	},
	KindCone: func(s Spec) (*mesh.FaceCollection, error) {
		if s.NoBase {
			return shape.ConeSide(s.Radius, s.Height, orOne(s.Layers))
		}
		return shape.Cone(s.Radius, s.Height, orOne(s.Layers))
	},
	KindSphere: func(s Spec) (*mesh.FaceCollection, error) {
		return shape.Sphere(s.Radius, orOne(s.Splits))
	},
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Procedural builds meshes with the exact generators of pkg/shape.
type Procedural struct{}

// Compile-time interface check.
var _ Kernel = Procedural{}

// Build dispatches on s.Kind.
func (Procedural) Build(s Spec) (*mesh.FaceCollection, error) {
	b, ok := builders[s.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
	}
	if err := s.checkLimits(); err != nil {
		return nil, fmt.Errorf("kernel: build %s: %w", s.Kind, err)
	}
	fc, err := b(s)
	if err != nil {
		return nil, fmt.Errorf("kernel: build %s: %w", s.Kind, err)
	}
	return fc, nil
}

// Build is shorthand for Procedural{}.Build.
func Build(s Spec) (*mesh.FaceCollection, error) {
	return Procedural{}.Build(s)
}
