package metrics

import (
	"github.com/san-kum/physim/internal/dynamo"
)

// Stability is the fraction of frames in which no body exceeded the speed
// threshold or left the finite range.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Frame) {
	s.samples++
	for _, b := range f.Bodies {
		if !b.Pos.IsFinite() || !b.Vel.IsFinite() || b.Vel.Len() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
