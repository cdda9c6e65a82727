package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointEqualityUsesRounding(t *testing.T) {
	p := NewPoint(1, 2, 3)
	q := NewPoint(1+1e-13, 2-1e-13, 3)

	assert.True(t, p.Equal(q))
	assert.Equal(t, p.Key(), q.Key())
	// Stored coordinates are not rounded.
	assert.NotEqual(t, p.X, q.X)

	assert.False(t, p.Equal(NewPoint(1.001, 2, 3)))
	assert.Equal(t, NewPoint(0, 0, 0).Key(), NewPoint(-1e-17, 0, 0).Key())
}

func TestPointSphericalView(t *testing.T) {
	p := NewPoint(0, 3, 4)
	assert.InDelta(t, 5, p.R(), 1e-12)
	assert.InDelta(t, math.Pi/2, p.Phi().Value(), 1e-12)
	assert.InDelta(t, math.Atan2(3, 4), p.Theta().Value(), 1e-12)

	// Points below the xy plane keep a positive azimuth.
	q := NewPoint(0, -1, 0)
	assert.InDelta(t, 3*math.Pi/2, q.Phi().Value(), 1e-12)
}

func TestFromSphericalRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		r     float64
		phi   float64
		theta float64
	}{
		{"equator", 2, math.Pi / 3, math.Pi / 2},
		{"northern", 1.5, 4, 0.7},
		{"southern", 7, 0.1, 2.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromSpherical(tt.r, NewAngle(tt.phi), NewAngle(tt.theta))
			assert.InDelta(t, tt.r, p.R(), 1e-12)
			assert.InDelta(t, tt.phi, p.Phi().Value(), 1e-12)
			assert.InDelta(t, tt.theta, p.Theta().Value(), 1e-12)
		})
	}
}

func TestPointRotation(t *testing.T) {
	rot := func(p Point) Point {
		return p.RotateX(NewAngle(math.Pi)).
			RotateY(NewAngle(math.Pi / 2)).
			RotateZ(NewAngle(math.Pi / 2))
	}
	tests := []struct {
		in, want Point
	}{
		{NewPoint(1, 0, 0), NewPoint(0, 0, -1)},
		{NewPoint(0, 1, 0), NewPoint(1, 0, 0)},
		{NewPoint(0, 0, 1), NewPoint(0, -1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got := rot(tt.in)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestPointRightHandRule(t *testing.T) {
	quarter := NewAngle(math.Pi / 2)
	assert.True(t, NewPoint(0, 1, 0).RotateX(quarter).Equal(NewPoint(0, 0, 1)))
	assert.True(t, NewPoint(0, 0, 1).RotateY(quarter).Equal(NewPoint(1, 0, 0)))
	assert.True(t, NewPoint(1, 0, 0).RotateZ(quarter).Equal(NewPoint(0, 1, 0)))
}

func TestPointMoveAndString(t *testing.T) {
	p := NewPoint(1, 0, 0).Move(6, 2, 3)
	assert.Equal(t, NewPoint(7, 2, 3), p)
	assert.Equal(t, "(7, 2, 3)", p.String())
	assert.Equal(t, NewPoint(0.5, 1, 1.5), NewPoint(0, 0, 0).Midpoint(NewPoint(1, 2, 3)))
}

func TestVector(t *testing.T) {
	a := NewPoint(0, 0, 0)
	b := NewPoint(1, 0, 0)
	c := NewPoint(0, 1, 0)

	u := VectorFromPoints(a, b)
	v := VectorFromPoints(a, c)

	assert.Equal(t, NewVector(0, 0, 1), u.Cross(v))
	assert.Equal(t, 0.0, u.Dot(v))
	assert.InDelta(t, 5, NewVector(3, 4, 0).Len(), 1e-12)
	assert.True(t, Vector{}.Normalize().IsZero())
	assert.InDelta(t, 1, NewVector(0, 0, 9).Normalize().Z(), 1e-12)
}
