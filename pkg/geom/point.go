package geom

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// KeyPrecision is the rounding step used when comparing points.
const KeyPrecision = 1e-10

// Point is an immutable position in 3D space. Two points are equal when
// their coordinates agree after rounding to KeyPrecision; the stored
// coordinates themselves are never rounded.
type Point struct {
	X, Y, Z float64
}

// Key is the rounded coordinate tuple that identifies a point.
type Key [3]float64

// NewPoint is a convenience constructor.
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// FromSpherical builds a point from radius, azimuth phi (measured in the xy
// plane from +X) and polar angle theta (measured from +Z).
func FromSpherical(r float64, phi, theta Angle) Point {
	return Point{
		X: r * phi.Cos() * theta.Sin(),
		Y: r * phi.Sin() * theta.Sin(),
		Z: r * theta.Cos(),
	}
}

func round(v float64) float64 {
	r := math.Round(v/KeyPrecision) * KeyPrecision
	if r == 0 {
		// Collapse -0 so it hashes like 0.
		return 0
	}
	return r
}

// Key returns the rounded tuple used for equality and map lookups.
func (p Point) Key() Key {
	return Key{round(p.X), round(p.Y), round(p.Z)}
}

// Equal reports whether p and q are the same point after rounding.
func (p Point) Equal(q Point) bool {
	return p.Key() == q.Key()
}

// IsClose reports whether every coordinate of p is within tol of q.
func (p Point) IsClose(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol && math.Abs(p.Z-q.Z) <= tol
}

// R is the distance from the origin.
func (p Point) R() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Phi is the azimuth in the xy plane.
func (p Point) Phi() Angle {
	return NewAngle(math.Atan2(p.Y, p.X))
}

// Theta is the polar angle from +Z.
func (p Point) Theta() Angle {
	return NewAngle(math.Atan2(math.Hypot(p.X, p.Y), p.Z))
}

// Move returns p translated by (dx, dy, dz).
func (p Point) Move(dx, dy, dz float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// RotateX rotates p about the X axis by the right-hand rule.
func (p Point) RotateX(a Angle) Point {
	return p.apply(mgl64.Rotate3DX(a.v))
}

// RotateY rotates p about the Y axis by the right-hand rule.
func (p Point) RotateY(a Angle) Point {
	return p.apply(mgl64.Rotate3DY(a.v))
}

// RotateZ rotates p about the Z axis by the right-hand rule.
func (p Point) RotateZ(a Angle) Point {
	return p.apply(mgl64.Rotate3DZ(a.v))
}

func (p Point) apply(m mgl64.Mat3) Point {
	return FromVec3(m.Mul3x1(p.Vec3()))
}

// Vec3 converts p to a mathgl vector.
func (p Point) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// FromVec3 converts a mathgl vector to a point.
func FromVec3(v mgl64.Vec3) Point {
	return Point{X: v[0], Y: v[1], Z: v[2]}
}

// Midpoint is the Cartesian midpoint of p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2, Z: (p.Z + q.Z) / 2}
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s, %s)", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
