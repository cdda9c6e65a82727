package geom

import "github.com/go-gl/mathgl/mgl64"

// Vector is a free 3D vector, used for face normals and transform offsets.
type Vector mgl64.Vec3

// NewVector is a convenience constructor.
func NewVector(x, y, z float64) Vector {
	return Vector{x, y, z}
}

// VectorFromPoints returns the vector pointing from a to b.
func VectorFromPoints(a, b Point) Vector {
	return Vector(b.Vec3().Sub(a.Vec3()))
}

func (v Vector) X() float64 { return v[0] }
func (v Vector) Y() float64 { return v[1] }
func (v Vector) Z() float64 { return v[2] }

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector(mgl64.Vec3(v).Add(mgl64.Vec3(w)))
}

// Dot returns the scalar product.
func (v Vector) Dot(w Vector) float64 {
	return mgl64.Vec3(v).Dot(mgl64.Vec3(w))
}

// Cross returns the vector product v × w.
func (v Vector) Cross(w Vector) Vector {
	return Vector(mgl64.Vec3(v).Cross(mgl64.Vec3(w)))
}

// Len returns the Euclidean length.
func (v Vector) Len() float64 {
	return mgl64.Vec3(v).Len()
}

// Normalize returns the unit vector along v, or the zero vector when v has
// no length.
func (v Vector) Normalize() Vector {
	if v.Len() == 0 {
		return Vector{}
	}
	return Vector(mgl64.Vec3(v).Normalize())
}

// IsZero reports whether all components are exactly zero.
func (v Vector) IsZero() bool {
	return v == Vector{}
}
