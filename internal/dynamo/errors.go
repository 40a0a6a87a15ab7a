package dynamo

import (
	"errors"
	"fmt"

	"github.com/san-kum/physim/internal/physics"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a rejected arena, timestep or body population.
	// It matches physics.ErrInvalidConfiguration under errors.Is.
	ErrInvalidConfig = fmt.Errorf("dynamo: %w", physics.ErrInvalidConfiguration)

	// ErrDiverged indicates a body reached a NaN or infinite state.
	ErrDiverged = errors.New("dynamo: body state diverged (NaN or Inf)")

	// ErrCanceled indicates the run was interrupted.
	ErrCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the step that produced it.
type SimulationError struct {
	Step    int
	Time    float64
	Body    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) body %d: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
