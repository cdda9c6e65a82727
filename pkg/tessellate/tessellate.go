// Package tessellate walks a scene and produces flat render meshes. One mesh
// is produced per entry, with the entry's pending transform applied.
package tessellate

import (
	"fmt"

	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/scene"
)

// Tessellate converts every scene entry into a render mesh, in scene order.
// Entries without faces are skipped. The tessellator is read-only and never
// mutates the scene.
func Tessellate(sc *scene.Scene) ([]*kernel.Mesh, error) {
	if sc == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, e := range sc.Entries {
		m, err := handleEntry(e)
		if err != nil {
			return nil, fmt.Errorf("tessellate: entry %s: %w", e.ID.Short(), err)
		}
		if m != nil {
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

// TessellateWorld merges every entry into one world mesh first and returns it
// as a single render mesh named name.
func TessellateWorld(sc *scene.Scene, name string) (*kernel.Mesh, error) {
	if sc == nil {
		return kernel.FromFaces(mesh.New(), name), nil
	}
	w, err := sc.World()
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return kernel.FromFaces(w.FaceCollection, name), nil
}

// handleEntry creates the render mesh for one entry.
func handleEntry(e *scene.Entry) (*kernel.Mesh, error) {
	if e.Mesh == nil {
		return nil, fmt.Errorf("entry %q has no mesh", e.Name)
	}
	if e.Mesh.NumFaces() == 0 {
		return nil, nil
	}

	// Set the part name: prefer the entry's Name, fall back to short ID.
	name := e.Name
	if name == "" {
		name = e.ID.Short()
	}
	return kernel.FromFaces(e.Mesh, name), nil
}
