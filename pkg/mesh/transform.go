package mesh

import (
	"fmt"

	"github.com/chazu/facet/pkg/geom"
)

// Transform is a pending rigid transform: rotations about X, Y and Z (applied
// in that order) followed by a translation. Components only accumulate.
type Transform struct {
	Move     geom.Vector
	Rotation [3]geom.Angle
}

// Identity is the transform of a freshly built mesh.
var Identity = Transform{}

// IsIdentity reports whether t would leave every point unchanged.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

// Translate returns t with (dx, dy, dz) added to the move.
func (t Transform) Translate(dx, dy, dz float64) Transform {
	t.Move = t.Move.Add(geom.NewVector(dx, dy, dz))
	return t
}

// Rotate returns t with the given angles added to the rotation.
func (t Transform) Rotate(rx, ry, rz geom.Angle) Transform {
	t.Rotation[0] = t.Rotation[0].Add(rx)
	t.Rotation[1] = t.Rotation[1].Add(ry)
	t.Rotation[2] = t.Rotation[2].Add(rz)
	return t
}

// Apply maps a single point through the transform.
func (t Transform) Apply(p geom.Point) geom.Point {
	return p.RotateX(t.Rotation[0]).
		RotateY(t.Rotation[1]).
		RotateZ(t.Rotation[2]).
		Move(t.Move.X(), t.Move.Y(), t.Move.Z())
}

func (t Transform) String() string {
	return fmt.Sprintf("move(%g, %g, %g) rotate(%g, %g, %g)",
		t.Move.X(), t.Move.Y(), t.Move.Z(),
		t.Rotation[0].Value(), t.Rotation[1].Value(), t.Rotation[2].Value())
}
