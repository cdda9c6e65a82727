package shape

import (
	"github.com/chazu/facet/pkg/mesh"
)

// Cylinder builds a closed cylinder standing on the xy plane: a bottom disc
// at z=0, a top disc at z=height and the wall between them. Every face uses
// the inward-facing convention of the circle fan.
func Cylinder(radius, height float64, rLayers, hLayers int) (*mesh.FaceCollection, error) {
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

	bottom, err := NewCircle(radius, rLayers)
	if err != nil {
		return nil, err
	}
	bottom.Faces.Invert()

	top, err := NewCircle(radius, rLayers)
	if err != nil {
		return nil, err
	}
	top.Faces.Move(0, 0, height).AcceptTransformations()

	wall := mesh.New()
	ring := cycled(rimPoints(bottom.Faces, radius))
	if err := stitchRings(wall, ring, height, hLayers); err != nil {
		return nil, err
	}

	return mesh.MergeAll(wall, bottom.Faces, top.Faces)
}
