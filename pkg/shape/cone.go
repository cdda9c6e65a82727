package shape

import (
	"math"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

// ConeSide builds the lateral surface of a cone with its base circle on the
// xy plane and the apex at (0, 0, height). It reuses the circle topology and
// lifts every point by (radius - r)/radius · height.
func ConeSide(radius, height float64, layers int) (*mesh.FaceCollection, error) {
	if err := requirePositive("height", height); err != nil {
		return nil, err
	}
	disc, err := NewCircle(radius, layers)
	if err != nil {
		return nil, err
	}

	lift := func(p geom.Point) geom.Point {
		r := math.Hypot(p.X, p.Y)
		return geom.NewPoint(p.X, p.Y, (radius-r)/radius*height)
	}
	side := mesh.New()
	for _, tri := range disc.Faces.FacedPoints() {
		side.AddFace(lift(tri[0]), lift(tri[1]), lift(tri[2]))
	}
	return side, nil
}

// Cone builds a closed cone: ConeSide plus the base disc, inverted so both
// parts share the same orientation.
func Cone(radius, height float64, layers int) (*mesh.FaceCollection, error) {
	side, err := ConeSide(radius, height, layers)
	if err != nil {
		return nil, err
	}
	base, err := NewCircle(radius, layers)
	if err != nil {
		return nil, err
	}
	base.Faces.Invert()
	return mesh.Merge(side, base.Faces)
}
