// Package mesh implements the triangle mesh every generator produces: a
// deduplicated point registry, an ordered set of triangles and a pending
// rigid transform that is only materialized on request.
package mesh

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/geom"
)

// Face is a triangle given as three point indices. The order is the winding;
// (a, b, c) and (a, c, b) are different faces.
type Face [3]int

// FaceCollection is a triangle mesh with a pending transform.
type FaceCollection struct {
	points    *geom.PointCollection
	faces     []Face
	faceIndex map[Face]struct{}
	transform Transform
}

// New returns an empty mesh with the identity transform.
func New() *FaceCollection {
	return &FaceCollection{
		points:    geom.NewPointCollection(),
		faceIndex: make(map[Face]struct{}),
	}
}

// AddFace registers the three points (deduplicating them) and appends the
// triangle. Adding an existing triangle with the same winding is a no-op.
func (fc *FaceCollection) AddFace(p1, p2, p3 geom.Point) Face {
	f := Face{fc.points.Add(p1), fc.points.Add(p2), fc.points.Add(p3)}
	fc.addFace(f)
	return f
}

func (fc *FaceCollection) addFace(f Face) {
	if _, ok := fc.faceIndex[f]; ok {
		return
	}
	fc.faceIndex[f] = struct{}{}
	fc.faces = append(fc.faces, f)
}

// HasFace reports whether the exact triangle (with its winding) is present.
func (fc *FaceCollection) HasFace(f Face) bool {
	_, ok := fc.faceIndex[f]
	return ok
}

// Faces returns the triangles in insertion order.
func (fc *FaceCollection) Faces() []Face {
	out := make([]Face, len(fc.faces))
	copy(out, fc.faces)
	return out
}

// NumFaces returns the triangle count.
func (fc *FaceCollection) NumFaces() int { return len(fc.faces) }

// NumPoints returns the point count.
func (fc *FaceCollection) NumPoints() int { return fc.points.Len() }

// Points returns the stored (untransformed) points in index order.
func (fc *FaceCollection) Points() []geom.Point { return fc.points.Points() }

// PointCollection exposes the underlying registry.
func (fc *FaceCollection) PointCollection() *geom.PointCollection { return fc.points }

// Transform returns the pending transform.
func (fc *FaceCollection) Transform() Transform { return fc.transform }

// FacedPoints resolves every triangle to its stored points.
func (fc *FaceCollection) FacedPoints() [][3]geom.Point {
	return fc.resolve(fc.points)
}

func (fc *FaceCollection) resolve(pc *geom.PointCollection) [][3]geom.Point {
	out := make([][3]geom.Point, len(fc.faces))
	for i, f := range fc.faces {
		out[i] = [3]geom.Point{pc.Point(f[0]), pc.Point(f[1]), pc.Point(f[2])}
	}
	return out
}

// TransformedFacedPoints resolves every triangle against the transformed
// points.
func (fc *FaceCollection) TransformedFacedPoints() [][3]geom.Point {
	return fc.resolve(fc.TransformedPoints())
}

// Move queues a translation and returns fc for chaining.
func (fc *FaceCollection) Move(dx, dy, dz float64) *FaceCollection {
	fc.transform = fc.transform.Translate(dx, dy, dz)
	return fc
}

// Rotate queues a rotation and returns fc for chaining.
func (fc *FaceCollection) Rotate(rx, ry, rz geom.Angle) *FaceCollection {
	fc.transform = fc.transform.Rotate(rx, ry, rz)
	return fc
}

// TransformedPoints returns the points with the pending transform applied,
// without changing fc.
func (fc *FaceCollection) TransformedPoints() *geom.PointCollection {
	if fc.transform.IsIdentity() {
		return fc.points.Clone()
	}
	return fc.points.Map(fc.transform.Apply)
}

// AcceptTransformations bakes the pending transform into the stored points
// and resets it to identity.
func (fc *FaceCollection) AcceptTransformations() *FaceCollection {
	if fc.transform.IsIdentity() {
		return fc
	}
	fc.points = fc.points.Map(fc.transform.Apply)
	fc.transform = Identity
	return fc
}

// Invert flips the winding of every triangle by swapping its last two
// indices.
func (fc *FaceCollection) Invert() *FaceCollection {
	faces := fc.faces
	fc.faces = make([]Face, 0, len(faces))
	fc.faceIndex = make(map[Face]struct{}, len(faces))
	for _, f := range faces {
		fc.addFace(Face{f[0], f[2], f[1]})
	}
	return fc
}

// Clone returns an independent deep copy.
func (fc *FaceCollection) Clone() *FaceCollection {
	out := &FaceCollection{
		points:    fc.points.Clone(),
		faces:     make([]Face, len(fc.faces)),
		faceIndex: make(map[Face]struct{}, len(fc.faces)),
		transform: fc.transform,
	}
	copy(out.faces, fc.faces)
	for _, f := range fc.faces {
		out.faceIndex[f] = struct{}{}
	}
	return out
}

// Equal reports whether both meshes have equal points in the same order, the
// same set of triangles and the same pending transform.
func (fc *FaceCollection) Equal(other *FaceCollection) bool {
	if fc.transform != other.transform {
		return false
	}
	if !fc.points.Equal(other.points) {
		return false
	}
	if len(fc.faces) != len(other.faces) {
		return false
	}
	for _, f := range fc.faces {
		if !other.HasFace(f) {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned extent of the stored points. An empty mesh
// reports zero bounds.
func (fc *FaceCollection) Bounds() (min, max geom.Point) {
	if fc.points.Len() == 0 {
		return geom.Point{}, geom.Point{}
	}
	min = geom.NewPoint(math.Inf(1), math.Inf(1), math.Inf(1))
	max = geom.NewPoint(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, p := range fc.points.Points() {
		min = geom.NewPoint(math.Min(min.X, p.X), math.Min(min.Y, p.Y), math.Min(min.Z, p.Z))
		max = geom.NewPoint(math.Max(max.X, p.X), math.Max(max.Y, p.Y), math.Max(max.Z, p.Z))
	}
	return min, max
}

func (fc *FaceCollection) String() string {
	return fmt.Sprintf("mesh(%d points, %d faces, %v)", fc.NumPoints(), fc.NumFaces(), fc.transform)
}

// Merge combines two meshes that share the same pending transform. Every
// triangle of lhs and then rhs is re-added to a fresh mesh, so shared points
// collapse and only referenced points survive. Neither input is modified.
func Merge(lhs, rhs *FaceCollection) (*FaceCollection, error) {
	if lhs.transform != rhs.transform {
		return nil, fmt.Errorf("%w: %v vs %v", ErrIncompatibleMerge, lhs.transform, rhs.transform)
	}
	out := New()
	for _, src := range []*FaceCollection{lhs, rhs} {
		for _, tri := range src.FacedPoints() {
			out.AddFace(tri[0], tri[1], tri[2])
		}
	}
	out.transform = lhs.transform
	return out, nil
}

// MergeAll folds Merge over meshes in order.
func MergeAll(meshes ...*FaceCollection) (*FaceCollection, error) {
	out := New()
	if len(meshes) > 0 {
		out.transform = meshes[0].transform
	}
	for i, m := range meshes {
		merged, err := Merge(out, m)
		if err != nil {
			return nil, fmt.Errorf("merge part %d: %w", i, err)
		}
		out = merged
	}
	return out, nil
}
