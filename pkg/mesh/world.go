package mesh

import "fmt"

// World aggregates the placed geometry of other meshes. The source meshes
// keep their own pending transforms; the world stores the result.
type World struct {
	*FaceCollection
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{FaceCollection: New()}
}

// AddObject absorbs obj's transformed geometry. It fails, leaving the world
// untouched, when the world itself has a pending transform.
func (w *World) AddObject(obj *FaceCollection) error {
	if !w.transform.IsIdentity() {
		return fmt.Errorf("%w: %v", ErrPendingTransform, w.transform)
	}
	placed := &FaceCollection{
		points:    obj.TransformedPoints(),
		faces:     obj.faces,
		faceIndex: obj.faceIndex,
	}
	merged, err := Merge(w.FaceCollection, placed)
	if err != nil {
		return err
	}
	w.FaceCollection = merged
	return nil
}
