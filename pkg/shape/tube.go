package shape

import (
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

// Tube builds an open cylindrical wall around the Z axis from z=0 to
// z=height: hLayers+1 rings of 6·rLayers points each.
func Tube(radius, height float64, rLayers, hLayers int) (*mesh.FaceCollection, error) {
	if err := requirePositive("radius", radius); err != nil {
		return nil, err
	}
	if err := requirePositive("height", height); err != nil {
		return nil, err
	}
	if err := requireCount("r_layers", rLayers); err != nil {
		return nil, err
	}
	if err := requireCount("h_layers", hLayers); err != nil {
		return nil, err
	}

	// The last angle is a full turn and wraps to 0, closing each ring.
	angles, err := geom.Linspace(geom.NewAngle(0), geom.NewAngle(geom.TwoPi), 6*rLayers+1, true)
	if err != nil {
		return nil, err
	}
	ring := make([]geom.Point, len(angles))
	for i, a := range angles {
		ring[i] = geom.FromSpherical(radius, a, equator)
	}

	fc := mesh.New()
	if err := stitchRings(fc, ring, height, hLayers); err != nil {
		return nil, err
	}
	return fc, nil
}

// stitchRings lifts a closed ring (first point repeated at the end) to
// hLayers+1 heights between 0 and height and joins consecutive copies.
func stitchRings(fc *mesh.FaceCollection, ring []geom.Point, height float64, hLayers int) error {
	heights, err := geom.LinspaceFloat(0, height, hLayers+1, true)
	if err != nil {
		return err
	}
	var prev []geom.Point
	for _, h := range heights {
		curr := make([]geom.Point, len(ring))
		for i, p := range ring {
			curr[i] = p.Move(0, 0, h)
		}
		if prev != nil {
			connectLayers(fc, curr, prev)
		}
		prev = curr
	}
	return nil
}

// connectLayers joins two rings of equal length with two triangles per
// quad.
func connectLayers(fc *mesh.FaceCollection, curr, prev []geom.Point) {
	for k := 0; k+1 < len(curr); k++ {
		cl, cr := curr[k], curr[k+1]
		pl, pr := prev[k], prev[k+1]
		fc.AddFace(cl, cr, pl)
		fc.AddFace(pl, cr, pr)
	}
}
