// Package shape contains the parametric primitive generators. Each
// generator validates its parameters and then builds a fresh mesh with the
// identity transform.
//
// Orientation: Plane, Box and Sphere wind their triangles counter-clockwise
// seen from outside (normals point away from the solid). Circle, Tube,
// Cylinder and Cone share the circle fan's winding, whose normals face -Z on
// the disc and inward on the walls.
package shape

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned when a generator parameter violates its
// domain constraint. No mesh is built in that case.
var ErrInvalidArgument = errors.New("shape: invalid argument")

// radiusTolerance decides which points lie on a circle's rim.
const radiusTolerance = 1e-8

func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, fmt.Sprintf(format, args...))
}

func requirePositive(field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalid(field, "must be positive and finite, got %g", v)
	}
	return nil
}

func requireCount(field string, n int) error {
	if n < 1 {
		return invalid(field, "must be at least 1, got %d", n)
	}
	return nil
}
