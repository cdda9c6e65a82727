// Package geom provides the value types the mesh kernel is built from:
// canonical angles, points with a spherical view, free vectors and the
// deduplicating point registry shared by every mesh.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// ErrInvalidRange is returned by Linspace when the bounds are reversed or
// the sample count is negative.
var ErrInvalidRange = errors.New("geom: invalid range")

// Angle is a planar angle kept in the canonical interval [0, 2π).
// The zero value is a valid angle of 0 radians.
type Angle struct {
	v float64
}

// NewAngle reduces v radians into [0, 2π).
func NewAngle(v float64) Angle {
	r := v - math.Floor(v/TwoPi)*TwoPi
	if r < 0 {
		r += TwoPi
	}
	// Values a hair below a full turn round up to exactly 2π.
	if r >= TwoPi {
		r = 0
	}
	return Angle{v: r}
}

// Degrees builds an angle from degrees.
func Degrees(d float64) Angle {
	return NewAngle(d * math.Pi / 180)
}

// Value returns the canonical radians.
func (a Angle) Value() float64 { return a.v }

// Add returns the canonical sum a + b.
func (a Angle) Add(b Angle) Angle { return NewAngle(a.v + b.v) }

// Sub returns the canonical difference a - b.
func (a Angle) Sub(b Angle) Angle { return NewAngle(a.v - b.v) }

// Less orders angles by canonical value.
func (a Angle) Less(b Angle) bool { return a.v < b.v }

// IsZero reports whether the angle is exactly 0.
func (a Angle) IsZero() bool { return a.v == 0 }

// Cos and Sin are shorthands over the canonical value.
func (a Angle) Cos() float64 { return math.Cos(a.v) }
func (a Angle) Sin() float64 { return math.Sin(a.v) }

func (a Angle) String() string {
	return fmt.Sprintf("%grad", a.v)
}

// Convert maps raw radians to canonical angles.
func Convert(values []float64) []Angle {
	out := make([]Angle, len(values))
	for i, v := range values {
		out[i] = NewAngle(v)
	}
	return out
}

// Linspace returns n angles evenly spaced between lo and hi, following
// numpy.linspace. When hi is exactly 0 and lo is non-negative the upper bound
// is taken as 2π, so Linspace(a, 0, ...) sweeps up to a full turn. The last
// sample of a sweep ending at 2π therefore wraps to 0.
func Linspace(lo, hi Angle, n int, endpoint bool) ([]Angle, error) {
	top := hi.v
	if hi.v == 0 && lo.v >= 0 {
		top = TwoPi
	} else if lo.v > hi.v {
		return nil, fmt.Errorf("%w: lo %v > hi %v", ErrInvalidRange, lo, hi)
	}
	raw, err := LinspaceFloat(lo.v, top, n, endpoint)
	if err != nil {
		return nil, err
	}
	return Convert(raw), nil
}

// LinspaceFloat is numpy.linspace over plain floats. The last sample equals
// stop exactly when endpoint is set.
func LinspaceFloat(start, stop float64, n int, endpoint bool) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", ErrInvalidRange, n)
	}
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}
	div := n
	if endpoint {
		div = n - 1
	}
	if div == 0 {
		out[0] = start
		return out, nil
	}
	step := (stop - start) / float64(div)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	if endpoint {
		out[n-1] = stop
	}
	return out, nil
}
