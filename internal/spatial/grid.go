package spatial

import (
	"math"

	"github.com/san-kum/physim/internal/physics"
)

// Hash multipliers for combining cell coordinates into a bucket.
const (
	hashX    = 92837111
	hashY    = 689287499
	hashSalt = 283923481
)

// DefaultCellFactor scales the mean body radius into the default cell size.
const DefaultCellFactor = 3.0

type Grid struct {
	cellSize    float64
	fixedCell   bool
	buckets     int
	cellStart   []int
	cellEntries []int

	// query scratch: seen[i] == stamp marks body i as already collected
	seen  []uint32
	stamp uint32
	found []int
}

// New returns an empty grid. A cellSize <= 0 means the cell size is derived
// on every rebuild as DefaultCellFactor times the mean body radius.
func New(cellSize float64) *Grid {
	g := &Grid{}
	if cellSize > 0 {
		g.cellSize = cellSize
		g.fixedCell = true
	}
	return g
}

func (g *Grid) CellSize() float64 { return g.cellSize }
func (g *Grid) BucketCount() int  { return g.buckets }
func (g *Grid) Len() int          { return len(g.cellEntries) }

// CellCoord maps one axis value onto the grid.
func CellCoord(v, cellSize float64) int {
	return int(math.Floor(v / cellSize))
}

// HashCell combines grid coordinates into a bucket index in [0, buckets).
func HashCell(cx, cy, buckets int) int {
	h := int64(cx)*hashX ^ int64(cy)*hashY ^ hashSalt
	u := uint64(h)
	if h < 0 {
		u = uint64(-h)
	}
	return int(u % uint64(buckets))
}

func (g *Grid) bucketOf(p physics.Vec2) int {
	return HashCell(CellCoord(p.X, g.cellSize), CellCoord(p.Y, g.cellSize), g.buckets)
}

// Rebuild indexes the current positions of bodies. The bucket count is
// twice the population.
func (g *Grid) Rebuild(bodies []physics.Body) {
	n := len(bodies)
	if !g.fixedCell {
		g.cellSize = DefaultCellFactor * physics.MeanRadius(bodies)
	}
	g.buckets = 2 * n
	g.cellStart = resize(g.cellStart, g.buckets+1)
	g.cellEntries = resize(g.cellEntries, n)
	if len(g.seen) != n {
		g.seen = make([]uint32, n)
		g.stamp = 0
	}
	for i := range g.cellStart {
		g.cellStart[i] = 0
	}
	if n == 0 {
		return
	}

	for i := range bodies {
		g.cellStart[g.bucketOf(bodies[i].Pos)]++
	}

	start := 0
	for b := 0; b < g.buckets; b++ {
		start += g.cellStart[b]
		g.cellStart[b] = start
	}
	g.cellStart[g.buckets] = start

	// walking the start pointers back down leaves each one at its bucket's
	// first entry
	for i := range bodies {
		b := g.bucketOf(bodies[i].Pos)
		g.cellStart[b]--
		g.cellEntries[g.cellStart[b]] = i
	}
}

// Bucket returns the body indices hashed to bucket b. The slice aliases the
// grid and is valid until the next Rebuild.
func (g *Grid) Bucket(b int) []int {
	if b < 0 || b >= g.buckets {
		return nil
	}
	return g.cellEntries[g.cellStart[b]:g.cellStart[b+1]]
}

// Query returns the indices of bodies in every cell overlapping the square
// [p-maxDist, p+maxDist], each index at most once. The result aliases a
// scratch buffer that the next Query overwrites.
func (g *Grid) Query(p physics.Vec2, maxDist float64) []int {
	g.found = g.found[:0]
	if g.buckets == 0 {
		return g.found
	}
	g.nextStamp()

	x0, y0 := CellCoord(p.X-maxDist, g.cellSize), CellCoord(p.Y-maxDist, g.cellSize)
	x1, y1 := CellCoord(p.X+maxDist, g.cellSize), CellCoord(p.Y+maxDist, g.cellSize)

	// a range wider than the bucket table visits every bucket anyway
	// as does a non-finite query point
	span := (float64(x1-x0) + 1) * (float64(y1-y0) + 1)
	if span > float64(g.buckets) || span < 0 || !p.IsFinite() || x1 == math.MaxInt || y1 == math.MaxInt {
		for b := 0; b < g.buckets; b++ {
			g.collect(b)
		}
		return g.found
	}

	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			g.collect(HashCell(cx, cy, g.buckets))
		}
	}
	return g.found
}

func (g *Grid) collect(b int) {
	for _, idx := range g.cellEntries[g.cellStart[b]:g.cellStart[b+1]] {
		if g.seen[idx] == g.stamp {
			continue
		}
		g.seen[idx] = g.stamp
		g.found = append(g.found, idx)
	}
}

func (g *Grid) nextStamp() {
	g.stamp++
	if g.stamp == 0 {
		for i := range g.seen {
			g.seen[i] = 0
		}
		g.stamp = 1
	}
}

// Layout returns copies of the start table and entries array.
func (g *Grid) Layout() (start, entries []int) {
	start = append([]int(nil), g.cellStart...)
	entries = append([]int(nil), g.cellEntries...)
	return start, entries
}

func resize(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}
