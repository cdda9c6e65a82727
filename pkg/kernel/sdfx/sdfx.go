// Package sdfx cross-checks the procedural generators against the
// github.com/deadsy/sdfx SDF-based CAD library. It provides reference
// solids placed exactly like the procedural meshes, a surface deviation
// measure, a marching-cubes kernel.Kernel and STL export.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoSolid is returned for kinds without volume (plane, segment, circle).
var ErrNoSolid = errors.New("sdfx: shape has no reference solid")

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// Solid returns the reference SDF for s, placed where the procedural
// generator puts its mesh: boxes and spheres centred on the origin,
// cylinders, tubes and cones standing on the xy plane.
func Solid(s kernel.Spec) (sdf.SDF3, error) {
	switch s.Kind {
	case kernel.KindBox:
		// Procedural boxes span width on X, depth on Y and height on Z.
		return sdf.Box3D(v3.Vec{X: s.Width, Y: s.Depth, Z: s.Height}, 0)

	case kernel.KindSphere:
		return sdf.Sphere3D(s.Radius)

	case kernel.KindCylinder, kernel.KindTube:
		c, err := sdf.Cylinder3D(s.Height, s.Radius, 0)
		if err != nil {
			return nil, err
		}
		return standOnFloor(c, s.Height), nil

	case kernel.KindCone:
		c, err := sdf.Cone3D(s.Height, s.Radius, 0, 0)
		if err != nil {
			return nil, err
		}
		return standOnFloor(c, s.Height), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoSolid, s.Kind)
}

// standOnFloor shifts a solid centred on the origin so its base sits at z=0.
func standOnFloor(s sdf.SDF3, height float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2}))
}

func toVec(p geom.Point) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Deviation returns the largest distance between a transformed vertex of fc
// and the surface of the reference solid for s.
func Deviation(fc *mesh.FaceCollection, s kernel.Spec) (float64, error) {
	solid, err := Solid(s)
	if err != nil {
		return 0, err
	}
	var worst float64
	for _, p := range fc.TransformedPoints().Points() {
		worst = math.Max(worst, math.Abs(solid.Evaluate(toVec(p))))
	}
	return worst, nil
}

// SdfxKernel builds approximate meshes of the reference solids with
// marching cubes.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel at the default resolution.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// NewWithCells returns an SdfxKernel that samples the longest bounding box
// axis with the given number of cells.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Cells returns the marching-cubes resolution.
func (k *SdfxKernel) Cells() int { return k.cells }

// Build renders the reference solid for s into a mesh.
func (k *SdfxKernel) Build(s kernel.Spec) (*mesh.FaceCollection, error) {
	solid, err := Solid(s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(solid, renderer)

	fc := mesh.New()
	for _, tri := range triangles {
		fc.AddFace(
			geom.NewPoint(tri[0].X, tri[0].Y, tri[0].Z),
			geom.NewPoint(tri[1].X, tri[1].Y, tri[1].Z),
			geom.NewPoint(tri[2].X, tri[2].Y, tri[2].Z),
		)
	}
	return fc, nil
}

// SaveSTL writes the transformed triangles of fc to an STL file.
func SaveSTL(path string, fc *mesh.FaceCollection) error {
	tris := fc.TransformedFacedPoints()
	out := make([]*sdf.Triangle3, 0, len(tris))
	for _, t := range tris {
		out = append(out, &sdf.Triangle3{toVec(t[0]), toVec(t[1]), toVec(t[2])})
	}
	if err := render.SaveSTL(path, out); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
