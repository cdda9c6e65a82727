package kernel

import (
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene entry this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// FromFaces flattens fc into a render mesh. The pending transform is
// applied; each triangle gets its own three vertices carrying the face
// normal (zero for degenerate triangles).
func FromFaces(fc *mesh.FaceCollection, name string) *Mesh {
	tris := fc.TransformedFacedPoints()

	numVerts := len(tris) * 3
	m := &Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
		PartName: name,
	}

	for i, tri := range tris {
		n := FaceNormal(tri)
		nx, ny, nz := float32(n.X()), float32(n.Y()), float32(n.Z())

		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, nx, ny, nz)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

// FaceNormal is the unit normal of a triangle by the right-hand rule over
// its winding.
func FaceNormal(tri [3]geom.Point) geom.Vector {
	u := geom.VectorFromPoints(tri[0], tri[1])
	v := geom.VectorFromPoints(tri[0], tri[2])
	return u.Cross(v).Normalize()
}
