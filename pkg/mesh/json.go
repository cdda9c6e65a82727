package mesh

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chazu/facet/pkg/geom"
)

// axes is the JSON shape of the "moves" and "rotations" objects.
type axes struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// document is the canonical on-disk representation of a FaceCollection.
type document struct {
	Moves     axes         `json:"moves"`
	Rotations axes         `json:"rotations"`
	Points    [][3]float64 `json:"points"`
	Faces     [][3]int     `json:"faces"`
}

// rawDocument defers decoding so field shapes can be validated.
type rawDocument struct {
	Moves     map[string]float64 `json:"moves"`
	Rotations map[string]float64 `json:"rotations"`
	Points    [][]float64        `json:"points"`
	Faces     [][]int            `json:"faces"`
}

// MarshalJSON encodes the mesh as
// {"moves":{x,y,z},"rotations":{x,y,z},"points":[[x,y,z]...],"faces":[[i,j,k]...]}.
func (fc *FaceCollection) MarshalJSON() ([]byte, error) {
	doc := document{
		Moves: axes{X: fc.transform.Move.X(), Y: fc.transform.Move.Y(), Z: fc.transform.Move.Z()},
		Rotations: axes{
			X: fc.transform.Rotation[0].Value(),
			Y: fc.transform.Rotation[1].Value(),
			Z: fc.transform.Rotation[2].Value(),
		},
		Points: make([][3]float64, 0, fc.NumPoints()),
		Faces:  make([][3]int, 0, fc.NumFaces()),
	}
	for _, p := range fc.points.Points() {
		doc.Points = append(doc.Points, [3]float64{p.X, p.Y, p.Z})
	}
	for _, f := range fc.faces {
		doc.Faces = append(doc.Faces, [3]int(f))
	}
	return json.Marshal(doc)
}

// UnmarshalJSON replaces fc with the decoded document. Points keep their
// document order and indices.
func (fc *FaceCollection) UnmarshalJSON(data []byte) error {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	moves, err := decodeAxes("moves", raw.Moves)
	if err != nil {
		return err
	}
	rotations, err := decodeAxes("rotations", raw.Rotations)
	if err != nil {
		return err
	}

	points := make([]geom.Point, len(raw.Points))
	for i, p := range raw.Points {
		if len(p) != 3 {
			return fmt.Errorf("%w: point %d has %d coordinates", ErrBadDocument, i, len(p))
		}
		points[i] = geom.NewPoint(p[0], p[1], p[2])
	}

	out := New()
	out.points = geom.PointCollectionOf(points)
	for i, f := range raw.Faces {
		if len(f) != 3 {
			return fmt.Errorf("%w: face %d has %d indices", ErrBadDocument, i, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(points) {
				return fmt.Errorf("%w: face %d index %d out of range [0, %d)", ErrBadDocument, i, idx, len(points))
			}
		}
		out.addFace(Face{f[0], f[1], f[2]})
	}
	out.transform = Transform{
		Move:     geom.NewVector(moves.X, moves.Y, moves.Z),
		Rotation: [3]geom.Angle{geom.NewAngle(rotations.X), geom.NewAngle(rotations.Y), geom.NewAngle(rotations.Z)},
	}

	*fc = *out
	return nil
}

func decodeAxes(field string, m map[string]float64) (axes, error) {
	var a axes
	for k, v := range m {
		switch k {
		case "x":
			a.X = v
		case "y":
			a.Y = v
		case "z":
			a.Z = v
		default:
			return axes{}, fmt.Errorf("%w: %s has unknown axis %q", ErrBadDocument, field, k)
		}
	}
	return a, nil
}

// Save writes fc as a JSON document to path.
func Save(path string, fc *FaceCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("mesh: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("mesh: write %s: %w", path, err)
	}
	return nil
}

// Decode parses a JSON document. Every failure, malformed JSON included,
// wraps ErrBadDocument.
func Decode(data []byte) (*FaceCollection, error) {
	fc := New()
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return fc, nil
}

// Load reads a JSON document from path.
func Load(path string) (*FaceCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	fc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("mesh: decode %s: %w", path, err)
	}
	return fc, nil
}
