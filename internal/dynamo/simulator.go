package dynamo

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/physim/internal/collision"
	"github.com/san-kum/physim/internal/physics"
	"github.com/san-kum/physim/internal/spatial"
)

type Simulator struct {
	cfg       Config
	bodies    []physics.Body
	initial   []physics.Body
	walls     []physics.Wall
	borders   []physics.Wall
	grid      *spatial.Grid
	resolver  *collision.Resolver
	dt        float64
	t         float64
	steps     int
	metrics   []Metric
	observers []Observer
	pairs     collision.PairObserver
}

// New validates the scenario and returns a simulator owning copies of
// bodies and walls. Invalid bodies, walls or arena settings fail with an
// error matching physics.ErrInvalidConfiguration.
func New(bodies []physics.Body, walls []physics.Wall, cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i := range bodies {
		if err := bodies[i].Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	for i, w := range walls {
		if !(w.Width() > 0) || !(w.Height() > 0) {
			return nil, fmt.Errorf("wall %d: %w: extent %gx%g", i, ErrInvalidConfig, w.Width(), w.Height())
		}
	}

	borders, err := physics.Borders(cfg.Width, cfg.Height, cfg.Boundaries)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:       cfg,
		bodies:    append([]physics.Body(nil), bodies...),
		initial:   append([]physics.Body(nil), bodies...),
		walls:     append([]physics.Wall(nil), walls...),
		borders:   borders,
		grid:      spatial.New(cfg.CellSize),
		resolver:  collision.NewResolver(rand.New(rand.NewSource(cfg.Seed))),
		dt:        cfg.Timestep(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetPairObserver forwards every tested particle pair to o.
func (s *Simulator) SetPairObserver(o collision.PairObserver) {
	s.pairs = o
	s.resolver.SetObserver(o)
}

// Step advances the simulation by dt. It always runs to completion.
func (s *Simulator) Step(dt float64) StepStats {
	for i := range s.bodies {
		s.bodies[i].Integrate(dt)
	}

	var st StepStats
	if s.cfg.Naive {
		cs := s.resolver.ResolveNaive(s.bodies)
		st.Tested, st.Contacts = cs.Tested, cs.Contacts
	} else {
		s.grid.Rebuild(s.bodies)
		cs := s.resolver.ResolveAll(s.bodies, s.grid)
		st.Tested, st.Contacts = cs.Tested, cs.Contacts
	}

	st.WallHits = collision.ResolveWalls(s.bodies, s.walls)
	st.WallHits += collision.ResolveWalls(s.bodies, s.borders)

	s.t += dt
	s.steps++

	f := Frame{Step: s.steps, Time: s.t, Bodies: s.bodies, Stats: st}
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnStep(f)
	}
	return st
}

// Advance steps by the configured timestep.
func (s *Simulator) Advance() StepStats { return s.Step(s.dt) }

// Run advances steps times, recording momentum, kinetic energy and contact
// counts after every step.
func (s *Simulator) Run(ctx context.Context, steps int) (*Result, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, steps)
	}

	result := &Result{
		Times:         make([]float64, 0, steps+1),
		Momentum:      make([]physics.Vec2, 0, steps+1),
		KineticEnergy: make([]float64, 0, steps+1),
		Contacts:      make([]int, 0, steps+1),
		WallHits:      make([]int, 0, steps+1),
		Metrics:       make(map[string]float64),
	}
	record := func(st StepStats) {
		result.Times = append(result.Times, s.t)
		result.Momentum = append(result.Momentum, physics.TotalMomentum(s.bodies))
		result.KineticEnergy = append(result.KineticEnergy, physics.TotalKineticEnergy(s.bodies))
		result.Contacts = append(result.Contacts, st.Contacts)
		result.WallHits = append(result.WallHits, st.WallHits)
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	record(StepStats{})

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return s.finish(result), fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		default:
		}

		st := s.Advance()
		result.StepsTaken++
		record(st)

		if s.cfg.ValidateState {
			if idx := s.firstInvalid(); idx >= 0 {
				err := &SimulationError{Step: s.steps, Time: s.t, Body: idx, Wrapped: ErrDiverged}
				return s.finish(result), err
			}
		}
	}

	return s.finish(result), nil
}

func (s *Simulator) finish(result *Result) *Result {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.Snapshot()
	return result
}

// RunWithCallback advances until steps are done or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, steps int, callback func(Frame) bool) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		default:
		}

		st := s.Advance()
		if !callback(Frame{Step: s.steps, Time: s.t, Bodies: s.bodies, Stats: st}) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) firstInvalid() int {
	for i := range s.bodies {
		if !s.bodies[i].Pos.IsFinite() || !s.bodies[i].Vel.IsFinite() {
			return i
		}
	}
	return -1
}

// Reset restores the initial bodies, clock and random source.
func (s *Simulator) Reset() {
	copy(s.bodies, s.initial)
	s.t = 0
	s.steps = 0
	s.resolver = collision.NewResolver(rand.New(rand.NewSource(s.cfg.Seed)))
	s.resolver.SetObserver(s.pairs)
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Bodies returns the live body arena. Callers must treat it as read-only.
func (s *Simulator) Bodies() []physics.Body { return s.bodies }

// Snapshot returns a copy of the current bodies.
func (s *Simulator) Snapshot() []physics.Body {
	return append([]physics.Body(nil), s.bodies...)
}

// Body returns body i or ErrOutOfRange.
func (s *Simulator) Body(i int) (physics.Body, error) {
	if i < 0 || i >= len(s.bodies) {
		return physics.Body{}, fmt.Errorf("%w: body %d of %d", physics.ErrOutOfRange, i, len(s.bodies))
	}
	return s.bodies[i], nil
}

// BodyAt returns the index of the first body centered exactly at pos.
func (s *Simulator) BodyAt(pos physics.Vec2) (int, bool) {
	for i := range s.bodies {
		if s.bodies[i].Pos.Equal(pos) {
			return i, true
		}
	}
	return -1, false
}

func (s *Simulator) Walls() []physics.Wall   { return s.walls }
func (s *Simulator) Borders() []physics.Wall { return s.borders }
func (s *Simulator) Len() int                { return len(s.bodies) }
func (s *Simulator) Time() float64           { return s.t }
func (s *Simulator) Steps() int              { return s.steps }
func (s *Simulator) Dt() float64             { return s.dt }
func (s *Simulator) Config() Config          { return s.cfg }
