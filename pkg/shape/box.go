package shape

import (
	"math"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

// Box builds a closed box centred on the origin spanning width along X,
// depth along Y and height along Z. Each side is a Plane rotated and moved
// into place; the bottom, left and back sides are inverted so every normal
// points outward.
func Box(width, height, depth float64) (*mesh.FaceCollection, error) {
	if err := requirePositive("width", width); err != nil {
		return nil, err
	}
	if err := requirePositive("height", height); err != nil {
		return nil, err
	}
	if err := requirePositive("depth", depth); err != nil {
		return nil, err
	}

	zero := geom.NewAngle(0)
	quarter := geom.NewAngle(math.Pi / 2)

	type side struct {
		w, h       float64
		rx, ry     geom.Angle
		dx, dy, dz float64
		invert     bool
	}
	sides := []side{
		{w: width, h: depth, rx: zero, ry: zero, dz: -height / 2, invert: true},
		{w: width, h: depth, rx: zero, ry: zero, dz: height / 2},
		{w: height, h: depth, rx: zero, ry: quarter, dx: width / 2},
		{w: height, h: depth, rx: zero, ry: quarter, dx: -width / 2, invert: true},
		{w: width, h: height, rx: quarter, ry: zero, dy: -depth / 2},
		{w: width, h: height, rx: quarter, ry: zero, dy: depth / 2, invert: true},
	}

	parts := make([]*mesh.FaceCollection, 0, len(sides))
	for _, s := range sides {
		p, err := Plane(s.w, s.h)
		if err != nil {
			return nil, err
		}
		p.Rotate(s.rx, s.ry, zero).Move(s.dx, s.dy, s.dz).AcceptTransformations()
		if s.invert {
			p.Invert()
		}
		parts = append(parts, p)
	}
	return mesh.MergeAll(parts...)
}
