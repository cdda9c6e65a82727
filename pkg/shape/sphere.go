package shape

import (
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

type triangle [3]geom.Point

// Sphere approximates a sphere centred on the origin by subdividing an
// octahedron splits-1 times. The result has 8·4^(splits-1) faces.
func Sphere(radius float64, splits int) (*mesh.FaceCollection, error) {
	if err := requirePositive("radius", radius); err != nil {
		return nil, err
	}
	if err := requireCount("splits", splits); err != nil {
		return nil, err
	}

	top := geom.NewPoint(0, 0, radius)
	bot := geom.NewPoint(0, 0, -radius)
	xp := geom.NewPoint(radius, 0, 0)
	xm := geom.NewPoint(-radius, 0, 0)
	yp := geom.NewPoint(0, radius, 0)
	ym := geom.NewPoint(0, -radius, 0)

	work := []triangle{
		{yp, top, xp}, {xm, top, yp}, {ym, top, xm}, {xp, top, ym},
		{xp, bot, yp}, {yp, bot, xm}, {xm, bot, ym}, {ym, bot, xp},
	}
	for i := 1; i < splits; i++ {
		next := make([]triangle, 0, 4*len(work))
		for _, t := range work {
			next = append(next, splitTriangle(t)...)
		}
		work = next
	}

	fc := mesh.New()
	for _, t := range work {
		fc.AddFace(t[0], t[1], t[2])
	}
	return fc, nil
}

// splitTriangle replaces t with four triangles through its edge midpoints,
// keeping the winding.
func splitTriangle(t triangle) []triangle {
	p1, p2, p3 := t[0], t[1], t[2]
	ml := sphereMidpoint(p1, p2)
	mr := sphereMidpoint(p2, p3)
	mb := sphereMidpoint(p1, p3)
	return []triangle{
		{p1, ml, mb},
		{ml, mr, mb},
		{mb, mr, p3},
		{ml, p2, mr},
	}
}

// sphereMidpoint projects the Cartesian midpoint of a and b out to the mean
// of their radii.
func sphereMidpoint(a, b geom.Point) geom.Point {
	m := a.Midpoint(b)
	return geom.FromSpherical((a.R()+b.R())/2, m.Phi(), m.Theta())
}
