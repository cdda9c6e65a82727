package geom

// PointCollection is an insertion-ordered registry of distinct points. Each
// point receives the next dense zero-based index on first insertion; adding
// an equal point again returns the existing index.
type PointCollection struct {
	points []Point
	index  map[Key]int
}

// NewPointCollection returns an empty collection.
func NewPointCollection() *PointCollection {
	return &PointCollection{index: make(map[Key]int)}
}

// PointCollectionOf rebuilds a collection from a slot list, keeping one slot
// per input point. If two slots are equal the first one answers lookups.
func PointCollectionOf(points []Point) *PointCollection {
	pc := &PointCollection{
		points: make([]Point, len(points)),
		index:  make(map[Key]int, len(points)),
	}
	copy(pc.points, points)
	for i, p := range pc.points {
		if _, ok := pc.index[p.Key()]; !ok {
			pc.index[p.Key()] = i
		}
	}
	return pc
}

// Add inserts p if it is new and returns its index.
func (pc *PointCollection) Add(p Point) int {
	k := p.Key()
	if i, ok := pc.index[k]; ok {
		return i
	}
	i := len(pc.points)
	pc.points = append(pc.points, p)
	pc.index[k] = i
	return i
}

// Index looks p up without inserting it.
func (pc *PointCollection) Index(p Point) (int, bool) {
	i, ok := pc.index[p.Key()]
	return i, ok
}

// Contains reports whether an equal point is registered.
func (pc *PointCollection) Contains(p Point) bool {
	_, ok := pc.index[p.Key()]
	return ok
}

// Point returns the point stored at index i.
func (pc *PointCollection) Point(i int) Point {
	return pc.points[i]
}

// Len returns the number of slots.
func (pc *PointCollection) Len() int {
	return len(pc.points)
}

// Points returns a copy of the points in insertion order.
func (pc *PointCollection) Points() []Point {
	out := make([]Point, len(pc.points))
	copy(out, pc.points)
	return out
}

// Map returns a new collection with f applied to every slot, preserving
// indices.
func (pc *PointCollection) Map(f func(Point) Point) *PointCollection {
	out := make([]Point, len(pc.points))
	for i, p := range pc.points {
		out[i] = f(p)
	}
	return PointCollectionOf(out)
}

// Move returns a translated copy with insertion order preserved.
func (pc *PointCollection) Move(dx, dy, dz float64) *PointCollection {
	return pc.Map(func(p Point) Point { return p.Move(dx, dy, dz) })
}

// Clone returns an independent copy.
func (pc *PointCollection) Clone() *PointCollection {
	return PointCollectionOf(pc.points)
}

// Equal reports whether both collections hold equal points in the same
// order.
func (pc *PointCollection) Equal(other *PointCollection) bool {
	if pc.Len() != other.Len() {
		return false
	}
	for i, p := range pc.points {
		if !p.Equal(other.points[i]) {
			return false
		}
	}
	return true
}
