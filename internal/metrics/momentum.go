package metrics

import (
	"math"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

// MomentumDrift is the largest |P - P0| seen, where P0 is the total
// momentum of the first observed frame. Only wall reflections change it.
type MomentumDrift struct {
	name     string
	initial  physics.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f dynamo.Frame) {
	p := physics.TotalMomentum(f.Bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Dist(m.initial))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = physics.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
