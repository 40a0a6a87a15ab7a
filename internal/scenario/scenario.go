// Package scenario builds the body and wall populations of the stock
// demonstrations: a gas, a moving block, a compression wave and a
// two-body collision against fixed walls.
package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/physim/internal/physics"
)

const (
	KindGas       = "gas"
	KindBlock     = "block"
	KindWave      = "wave"
	KindCollision = "collision"
)

// Params selects a generator and tunes it. Zero fields take the
// generator's defaults.
type Params struct {
	Kind   string  `yaml:"kind" json:"kind"`
	N      int     `yaml:"n,omitempty" json:"n,omitempty"`
	Mass   float64 `yaml:"mass,omitempty" json:"mass,omitempty"`
	Energy float64 `yaml:"energy,omitempty" json:"energy,omitempty"`
	Radius float64 `yaml:"radius,omitempty" json:"radius,omitempty"`
	Scale  float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Scenario is a ready-to-simulate population.
type Scenario struct {
	Name   string
	Width  float64
	Height float64
	Bodies []physics.Body
	Walls  []physics.Wall
}

// Body returns body i or physics.ErrOutOfRange.
func (s *Scenario) Body(i int) (physics.Body, error) {
	if i < 0 || i >= len(s.Bodies) {
		return physics.Body{}, fmt.Errorf("%w: body %d of %d", physics.ErrOutOfRange, i, len(s.Bodies))
	}
	return s.Bodies[i], nil
}

// BodyAt returns the index of the first body centered exactly at pos.
func (s *Scenario) BodyAt(pos physics.Vec2) (int, bool) {
	for i := range s.Bodies {
		if s.Bodies[i].Pos.Equal(pos) {
			return i, true
		}
	}
	return -1, false
}

type generator func(p Params, width, height float64, rng *rand.Rand) (*Scenario, error)

var generators = map[string]generator{
	KindGas: func(p Params, w, h float64, rng *rand.Rand) (*Scenario, error) {
		bodies, err := Gas(rng, physics.V(w/2, h/2), or(p.N, 150), orf(p.Mass, 1), orf(p.Energy, 1e7), w, h, orf(p.Radius, 10))
		return &Scenario{Name: KindGas, Width: w, Height: h, Bodies: bodies}, err
	},
	KindBlock: func(p Params, w, h float64, _ *rand.Rand) (*Scenario, error) {
		bodies, err := Block(orf(p.Scale, 10), orf(p.Mass, 1))
		return &Scenario{Name: KindBlock, Width: w, Height: h, Bodies: bodies}, err
	},
	KindWave: func(p Params, w, h float64, _ *rand.Rand) (*Scenario, error) {
		bodies, err := Wave(w, h, orf(p.Scale, 30), orf(p.Mass, 1))
		return &Scenario{Name: KindWave, Width: w, Height: h, Bodies: bodies}, err
	},
	KindCollision: func(p Params, w, h float64, _ *rand.Rand) (*Scenario, error) {
		bodies, walls, err := Collision(w, h, orf(p.Scale, 10))
		return &Scenario{Name: KindCollision, Width: w, Height: h, Bodies: bodies, Walls: walls}, err
	},
}

// Build runs the generator named by p.Kind for an arena of width x height.
// Random placement draws from seed only.
func Build(p Params, width, height float64, seed int64) (*Scenario, error) {
	gen, ok := generators[p.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %q", p.Kind)
	}
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("%w: arena must be positive, got %gx%g", physics.ErrInvalidConfiguration, width, height)
	}
	return gen(p, width, height, rand.New(rand.NewSource(seed)))
}

// Kinds lists the available generators.
func Kinds() []string {
	names := make([]string, 0, len(generators))
	for k := range generators {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Gas scatters n bodies of the given mass and radius over a width x height
// box centered at center. The total kinetic energy is split at random
// between bodies and each one moves in a uniformly random direction.
func Gas(rng *rand.Rand, center physics.Vec2, n int, mass, energy, width, height, radius float64) ([]physics.Body, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: gas size must not be negative, got %d", physics.ErrInvalidConfiguration, n)
	}
	if energy < 0 {
		return nil, fmt.Errorf("%w: gas energy must not be negative, got %g", physics.ErrInvalidConfiguration, energy)
	}

	shares := make([]float64, n)
	sum := 0.0
	for i := range shares {
		shares[i] = rng.Float64()
		sum += shares[i]
	}

	hLim := width/2 - radius
	vLim := height/2 - radius
	bodies := make([]physics.Body, 0, n)
	for i := range shares {
		e := 0.0
		if sum > 0 {
			e = energy * shares[i] / sum
		}
		speed := math.Sqrt(2 * e / mass)
		vel := physics.FromAngle(2 * math.Pi * rng.Float64()).Scale(speed)
		pos := physics.V(
			randInt(rng, int(center.X-hLim), int(center.X+hLim)),
			randInt(rng, int(center.Y-vLim), int(center.Y+vLim)),
		)
		b, err := physics.NewBody(pos, vel, mass, radius)
		if err != nil {
			return nil, fmt.Errorf("gas body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// Block is a 20 x 5 lattice moving together at (10, 5) scale units per second.
func Block(scale, mass float64) ([]physics.Body, error) {
	vel := physics.V(10*scale, 5*scale)
	bodies := make([]physics.Body, 0, 100)
	for i := 0; i < 20; i++ {
		for j := 0; j < 5; j++ {
			pos := physics.V(scale*float64(2*i+1), 3*scale*float64(j+1))
			b, err := physics.NewBody(pos, vel, mass, 0.5*scale)
			if err != nil {
				return nil, fmt.Errorf("block body (%d,%d): %w", i, j, err)
			}
			bodies = append(bodies, b)
		}
	}
	return bodies, nil
}

// Wave is a resting lattice with a driving column on its left edge. Lattice
// sites whose disc would leave the arena interior are skipped.
func Wave(width, height, scale, mass float64) ([]physics.Body, error) {
	if !(scale > 0) {
		return nil, fmt.Errorf("%w: wave scale must be positive, got %g", physics.ErrInvalidConfiguration, scale)
	}
	cols := int(width / scale)
	rows := int(height / scale)
	radius := 0.5 * scale
	inside := func(p physics.Vec2) bool {
		m := physics.BorderThickness/2 + radius
		return p.X+m <= width && p.Y+m <= height
	}

	var bodies []physics.Body
	add := func(pos, vel physics.Vec2) error {
		if !inside(pos) {
			return nil
		}
		b, err := physics.NewBody(pos, vel, mass, radius)
		if err != nil {
			return err
		}
		bodies = append(bodies, b)
		return nil
	}

	for i := 1; i < cols; i++ {
		for j := 0; j < rows; j++ {
			if err := add(physics.V(scale*float64(2*i+1), 3*scale*float64(j+1)), physics.Vec2{}); err != nil {
				return nil, fmt.Errorf("wave medium (%d,%d): %w", i, j, err)
			}
		}
	}
	for j := 0; j < rows; j++ {
		if err := add(physics.V(scale, 3*scale*float64(j+1)), physics.V(10*scale, 0)); err != nil {
			return nil, fmt.Errorf("wave driver %d: %w", j, err)
		}
	}
	return bodies, nil
}

// Collision places two heavy bodies and a light one around a horizontal
// divider and a short vertical post.
func Collision(width, height, scale float64) ([]physics.Body, []physics.Wall, error) {
	divider, err := physics.NewWall(physics.V(width/2, height/2), width, scale)
	if err != nil {
		return nil, nil, err
	}
	post, err := physics.NewWall(physics.V(2*width/3, 3*height/4), 2*scale, height/4)
	if err != nil {
		return nil, nil, err
	}

	specs := []struct {
		pos, vel     physics.Vec2
		mass, radius float64
	}{
		{physics.V(width/3, height/4), physics.V(10*scale, 0), 2, 2 * scale},
		{physics.V(2*width/3, height/4), physics.V(-10*scale, 0), 1, scale},
		{physics.V(width/3, 3*height/4), physics.V(10*scale, 0), 2, 2 * scale},
	}
	bodies := make([]physics.Body, 0, len(specs))
	for i, sp := range specs {
		b, err := physics.NewBody(sp.pos, sp.vel, sp.mass, sp.radius)
		if err != nil {
			return nil, nil, fmt.Errorf("collision body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, []physics.Wall{divider, post}, nil
}

// randInt draws an integer in [lo, hi], both ends included.
func randInt(rng *rand.Rand, lo, hi int) float64 {
	if hi < lo {
		return float64(lo)
	}
	return float64(lo + rng.Intn(hi-lo+1))
}

func or(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orf(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
