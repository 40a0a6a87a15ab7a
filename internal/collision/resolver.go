// Package collision resolves contacts between bodies and between bodies and
// walls. Candidate pairs come from a spatial.Grid or, in naive mode, from
// every unordered pair.
package collision

import (
	"math"

	"github.com/san-kum/physim/internal/physics"
	"github.com/san-kum/physim/internal/spatial"
)

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// PairObserver is told about every unique pair a resolver pass tests.
type PairObserver interface {
	OnPair(i, j int, contact bool)
}

// Stats summarizes one resolver pass.
type Stats struct {
	Tested   int
	Contacts int
}

type Resolver struct {
	rng      Source
	checked  map[uint64]struct{}
	observer PairObserver
}

// NewResolver returns a resolver drawing separation axes for coincident
// bodies from rng.
func NewResolver(rng Source) *Resolver {
	return &Resolver{
		rng:     rng,
		checked: make(map[uint64]struct{}),
	}
}

func (r *Resolver) SetObserver(o PairObserver) { r.observer = o }

func pairKey(i, j int) uint64 {
	if i > j {
		i, j = j, i
	}
	return uint64(i)<<32 | uint64(uint32(j))
}

// ResolveAll resolves every overlapping pair among bodies using g, which
// must have been rebuilt from the current positions. Each body queries
// the grid around its current position with twice its radius, and each
// unordered pair is resolved at most once per call.
func (r *Resolver) ResolveAll(bodies []physics.Body, g *spatial.Grid) Stats {
	var st Stats
	r.forEachPair(bodies, g, func(i, j int) {
		contact := r.ResolvePair(&bodies[i], &bodies[j])
		st.Tested++
		if contact {
			st.Contacts++
		}
		if r.observer != nil {
			r.observer.OnPair(i, j, contact)
		}
	})
	return st
}

// ResolveNaive tests every unordered pair without the broad phase.
func (r *Resolver) ResolveNaive(bodies []physics.Body) Stats {
	var st Stats
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			contact := r.ResolvePair(&bodies[i], &bodies[j])
			st.Tested++
			if contact {
				st.Contacts++
			}
			if r.observer != nil {
				r.observer.OnPair(i, j, contact)
			}
		}
	}
	return st
}

func (r *Resolver) forEachPair(bodies []physics.Body, g *spatial.Grid, fn func(i, j int)) {
	clear(r.checked)
	for i := range bodies {
		for _, j := range g.Query(bodies[i].Pos, 2*bodies[i].Radius) {
			if j == i {
				continue
			}
			k := pairKey(i, j)
			if _, done := r.checked[k]; done {
				continue
			}
			r.checked[k] = struct{}{}
			fn(i, j)
		}
	}
}

// CandidatePairs calls fn once for every unique broad-phase candidate pair
// without touching the bodies. The order matches ResolveAll on static
// positions.
func CandidatePairs(bodies []physics.Body, g *spatial.Grid, fn func(i, j int)) {
	r := &Resolver{checked: make(map[uint64]struct{})}
	r.forEachPair(bodies, g, fn)
}

// Overlapping reports whether two bodies' discs intersect.
func Overlapping(a, b *physics.Body) bool {
	return a.Pos.Dist(b.Pos) < a.Radius+b.Radius
}

// ResolvePair separates two overlapping bodies so they just touch and
// exchanges momentum elastically. It returns false and does nothing when
// the bodies do not overlap. a and b must not alias.
func (r *Resolver) ResolvePair(a, b *physics.Body) bool {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	if !(dist < a.Radius+b.Radius) {
		return false
	}

	var axis physics.Vec2
	if dist == 0 {
		axis = physics.FromAngle(2 * math.Pi * r.rng.Float64())
	} else {
		axis = d.Scale(1 / dist)
	}

	mid := a.Pos.Add(d.Scale(0.5))
	a.Pos = mid.Sub(axis.Scale(a.Radius))
	b.Pos = mid.Add(axis.Scale(b.Radius))

	// full-vector exchange, not projected on the contact normal
	m1, m2 := a.Mass, b.Mass
	c1 := (m1 - m2) / (m1 + m2)
	c2 := 2 * m1 / (m1 + m2)
	vr := a.Vel.Sub(b.Vel)
	v2 := b.Vel
	a.Vel = vr.Scale(c1).Add(v2)
	b.Vel = vr.Scale(c2).Add(v2)
	return true
}

// ResolveWall pushes b out of w along the axis of least penetration and
// reflects the matching velocity component. On an exact tie both axes are
// resolved. It reports whether the body overlapped the wall.
func ResolveWall(b *physics.Body, w physics.Wall) bool {
	lo, hi := w.Bounds()
	right := b.Pos.X + b.Radius - lo.X
	left := hi.X - (b.Pos.X - b.Radius)
	down := b.Pos.Y + b.Radius - lo.Y
	up := hi.Y - (b.Pos.Y - b.Radius)

	if !(right > 0 && left > 0 && down > 0 && up > 0) {
		return false
	}

	overlapX := math.Min(right, left)
	overlapY := math.Min(down, up)
	c := w.Center()

	if overlapX >= overlapY {
		s := side(b.Pos.Y - c.Y)
		b.Pos.Y = c.Y + s*(w.Height()/2+b.Radius)
		b.Vel.Y = -b.Vel.Y
	}
	if overlapX <= overlapY {
		s := side(b.Pos.X - c.X)
		b.Pos.X = c.X + s*(w.Width()/2+b.Radius)
		b.Vel.X = -b.Vel.X
	}
	return true
}

// ResolveWalls runs ResolveWall for every body against every wall and
// returns the number of contacts.
func ResolveWalls(bodies []physics.Body, walls []physics.Wall) int {
	hits := 0
	for i := range bodies {
		for _, w := range walls {
			if ResolveWall(&bodies[i], w) {
				hits++
			}
		}
	}
	return hits
}

// side is the push direction for an offset from a wall center; a body
// sitting exactly on the center goes to the positive side.
func side(offset float64) float64 {
	if offset < 0 {
		return -1
	}
	return 1
}
