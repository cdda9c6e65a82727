package shape

import (
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

// Plane builds a width × height rectangle centred on the origin in the xy
// plane, split into two triangles facing +Z.
func Plane(width, height float64) (*mesh.FaceCollection, error) {
	if err := requirePositive("width", width); err != nil {
		return nil, err
	}
	if err := requirePositive("height", height); err != nil {
		return nil, err
	}

	w, h := width/2, height/2
	lb := geom.NewPoint(-w, -h, 0)
	lt := geom.NewPoint(-w, h, 0)
	rb := geom.NewPoint(w, -h, 0)
	rt := geom.NewPoint(w, h, 0)

	fc := mesh.New()
	fc.AddFace(lb, rb, rt)
	fc.AddFace(lb, rt, lt)
	return fc, nil
}
