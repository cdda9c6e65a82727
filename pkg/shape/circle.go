package shape

import (
	"math"
	"sort"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
)

// maxQuantum is the widest angular span built as a single fan. Wider
// segments are split so no fan spans half a turn or more.
const maxQuantum = geom.TwoPi / 3

// equator is the polar angle of points in the xy plane.
var equator = geom.NewAngle(math.Pi / 2)

// Segment is a circular sector mesh together with its rim.
type Segment struct {
	Faces *mesh.FaceCollection
	// OuterLayer holds the rim points in increasing azimuth, without
	// duplicates.
	OuterLayer []geom.Point
}

// NewCircleSegment builds the sector between azimuths from and to (from <
// to) with the given radius, subdivided into layers concentric rings. Layer
// i (counting from 0) holds i+2 points at radius (i+1)·radius/layers.
func NewCircleSegment(from, to geom.Angle, radius float64, layers int) (*Segment, error) {
	if !from.Less(to) {
		return nil, invalid("to", "must be greater than from (%v), got %v", from, to)
	}
	if err := requirePositive("radius", radius); err != nil {
		return nil, err
	}
	if err := requireCount("layers", layers); err != nil {
		return nil, err
	}

	n := int(math.Ceil((to.Value() - from.Value()) / maxQuantum))
	bounds, err := geom.Linspace(from, to, n+1, true)
	if err != nil {
		return nil, invalid("to", "%v", err)
	}
	return buildSegment(bounds, radius, layers)
}

// NewCircle builds a full disc in the xy plane from six 60° quanta.
func NewCircle(radius float64, layers int) (*Segment, error) {
	if err := requirePositive("radius", radius); err != nil {
		return nil, err
	}
	if err := requireCount("layers", layers); err != nil {
		return nil, err
	}

	bounds, err := geom.Linspace(geom.NewAngle(0), geom.NewAngle(geom.TwoPi), 7, true)
	if err != nil {
		return nil, err
	}
	return buildSegment(bounds, radius, layers)
}

// buildSegment builds one fan per consecutive pair of bounds.
func buildSegment(bounds []geom.Angle, radius float64, layers int) (*Segment, error) {
	fc := mesh.New()
	outer := geom.NewPointCollection()
	for i := 0; i+1 < len(bounds); i++ {
		rim, err := buildQuantum(fc, bounds[i], bounds[i+1], radius, layers)
		if err != nil {
			return nil, err
		}
		for _, p := range rim {
			outer.Add(p)
		}
	}
	return &Segment{Faces: fc, OuterLayer: outer.Points()}, nil
}

// buildQuantum adds one fan to fc and returns its outermost layer.
func buildQuantum(fc *mesh.FaceCollection, from, to geom.Angle, radius float64, layers int) ([]geom.Point, error) {
	prev := []geom.Point{geom.NewPoint(0, 0, 0)}
	for i := 0; i < layers; i++ {
		r := float64(i+1) * radius / float64(layers)
		angles, err := geom.Linspace(from, to, i+2, true)
		if err != nil {
			return nil, err
		}
		curr := make([]geom.Point, len(angles))
		for j, a := range angles {
			curr[j] = geom.FromSpherical(r, a, equator)
		}
		stitchFan(fc, curr, prev)
		prev = curr
	}
	return prev, nil
}

// stitchFan joins a layer to the one inside it. curr has exactly one point
// more than prev.
func stitchFan(fc *mesh.FaceCollection, curr, prev []geom.Point) {
	for k := 0; k+1 < len(curr); k++ {
		cl, cr := curr[k], curr[k+1]
		pl := prev[k]
		fc.AddFace(cl, pl, cr)
		if k+1 < len(prev) {
			pr := prev[k+1]
			fc.AddFace(pr, cr, pl)
		}
	}
}

// rimPoints returns the points of fc at distance radius from the Z axis
// origin, ordered by azimuth.
func rimPoints(fc *mesh.FaceCollection, radius float64) []geom.Point {
	var rim []geom.Point
	for _, p := range fc.Points() {
		if math.Abs(p.R()-radius) <= radiusTolerance {
			rim = append(rim, p)
		}
	}
	sort.SliceStable(rim, func(i, j int) bool {
		return rim[i].Phi().Less(rim[j].Phi())
	})
	return rim
}

// cycled returns pts with its first point appended at the end.
func cycled(pts []geom.Point) []geom.Point {
	if len(pts) == 0 {
		return pts
	}
	out := make([]geom.Point, 0, len(pts)+1)
	out = append(out, pts...)
	return append(out, pts[0])
}
