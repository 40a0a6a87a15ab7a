package export

import (
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

// Trail records the positions of selected bodies every Every steps.
type Trail struct {
	every   int
	indices []int
	points  [][]physics.Vec2
}

var _ dynamo.Observer = (*Trail)(nil)

// NewTrail follows the bodies at indices. every below 1 samples each step.
func NewTrail(every int, indices ...int) *Trail {
	if every < 1 {
		every = 1
	}
	return &Trail{
		every:   every,
		indices: indices,
		points:  make([][]physics.Vec2, len(indices)),
	}
}

func (t *Trail) OnStep(f dynamo.Frame) {
	if f.Step%t.every != 0 {
		return
	}
	for k, i := range t.indices {
		if i >= 0 && i < len(f.Bodies) {
			t.points[k] = append(t.points[k], f.Bodies[i].Pos)
		}
	}
}

// Points returns one polyline per followed body.
func (t *Trail) Points() [][]physics.Vec2 { return t.points }
