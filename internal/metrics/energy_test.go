package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

func frame(step int, st dynamo.StepStats, bodies ...physics.Body) dynamo.Frame {
	return dynamo.Frame{Step: step, Bodies: bodies, Stats: st}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	b := physics.Body{Vel: physics.V(3, 4), Mass: 2, Radius: 1}
	m.Observe(frame(1, dynamo.StepStats{}, b))
	if got := m.Value(); math.Abs(got-25) > 1e-12 {
		t.Errorf("expected energy 25, got %f", got)
	}

	b.Vel = physics.V(0, 0)
	m.Observe(frame(2, dynamo.StepStats{}, b))
	if got := m.Value(); math.Abs(got-12.5) > 1e-12 {
		t.Errorf("expected mean energy 12.5, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	b := physics.Body{Vel: physics.V(10, 0), Mass: 1, Radius: 1}
	m.Observe(frame(1, dynamo.StepStats{}, b))
	b.Vel = physics.V(-10, 0)
	m.Observe(frame(2, dynamo.StepStats{}, b))
	if m.Value() != 0 {
		t.Errorf("reflection changed energy: drift %g", m.Value())
	}

	b.Vel = physics.V(20, 0)
	m.Observe(frame(3, dynamo.StepStats{}, b))
	if got := m.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("expected drift 3, got %g", got)
	}
	if m.Current() != 200 {
		t.Errorf("expected current energy 200, got %g", m.Current())
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()

	a := physics.Body{Vel: physics.V(1, 0), Mass: 2, Radius: 1}
	b := physics.Body{Vel: physics.V(-1, 0), Mass: 1, Radius: 1}
	m.Observe(frame(1, dynamo.StepStats{}, a, b))

	a.Vel, b.Vel = physics.V(0, 0), physics.V(1, 0)
	m.Observe(frame(2, dynamo.StepStats{}, a, b))
	if m.Value() != 0 {
		t.Errorf("momentum-preserving exchange drifted by %g", m.Value())
	}

	b.Vel = physics.V(-1, 0)
	m.Observe(frame(3, dynamo.StepStats{}, a, b))
	if m.Value() != 2 {
		t.Errorf("expected drift 2, got %g", m.Value())
	}
}

func TestCounters(t *testing.T) {
	contacts, walls, tests := NewContacts(), NewWallHits(), NewPairTests()
	for i, st := range []dynamo.StepStats{{Tested: 4, Contacts: 1, WallHits: 2}, {Tested: 2, WallHits: 1}} {
		f := frame(i+1, st)
		contacts.Observe(f)
		walls.Observe(f)
		tests.Observe(f)
	}

	if contacts.Value() != 1 || walls.Value() != 3 || tests.Value() != 3 {
		t.Errorf("got contacts=%v walls=%v tests=%v", contacts.Value(), walls.Value(), tests.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(100)
	if s.Value() != 1 {
		t.Errorf("empty stability = %v, want 1", s.Value())
	}

	s.Observe(frame(1, dynamo.StepStats{}, physics.Body{Vel: physics.V(10, 0)}))
	s.Observe(frame(2, dynamo.StepStats{}, physics.Body{Vel: physics.V(200, 0)}))
	s.Observe(frame(3, dynamo.StepStats{}, physics.Body{Pos: physics.V(math.NaN(), 0)}))
	s.Observe(frame(4, dynamo.StepStats{}, physics.Body{}))

	if got := s.Value(); got != 0.5 {
		t.Errorf("stability = %v, want 0.5", got)
	}
}

func TestByName(t *testing.T) {
	all, err := ByName()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(Names()) {
		t.Errorf("got %d metrics, want %d", len(all), len(Names()))
	}
	for _, m := range all {
		if m.Name() == "" {
			t.Error("metric without a name")
		}
	}

	if _, err := ByName("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestMetricsInSimulator(t *testing.T) {
	bodies := []physics.Body{
		{Pos: physics.V(200, 300), Vel: physics.V(100, 0), Mass: 2, Radius: 20},
		{Pos: physics.V(400, 300), Vel: physics.V(-100, 0), Mass: 1, Radius: 10},
	}
	s, err := dynamo.New(bodies, nil, dynamo.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	drift, contacts := NewEnergyDrift(), NewContacts()
	s.AddMetric(drift)
	s.AddMetric(contacts)

	if _, err := s.Run(context.Background(), 120); err != nil {
		t.Fatal(err)
	}
	if contacts.Value() < 1 {
		t.Error("expected a contact within two seconds")
	}
	if drift.Value() > 1e-9 {
		t.Errorf("elastic run drifted by %g", drift.Value())
	}
}
