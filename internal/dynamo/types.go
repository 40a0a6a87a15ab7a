package dynamo

import (
	"fmt"

	"github.com/san-kum/physim/internal/physics"
)

// StepStats counts the work done by one step.
type StepStats struct {
	Tested   int
	Contacts int
	WallHits int
}

// Frame is the state handed to observers and metrics after a step. Bodies
// aliases the simulator's arena and is only valid during the callback.
type Frame struct {
	Step   int
	Time   float64
	Bodies []physics.Body
	Stats  StepStats
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

// Config describes the arena and the timestep policy. When Dt is zero the
// step length is TimeRes/FPS.
type Config struct {
	Width      float64
	Height     float64
	Boundaries physics.Sides
	Dt         float64
	FPS        float64
	TimeRes    float64
	CellSize   float64
	Seed       int64
	Naive      bool

	// ValidateState makes Run stop with ErrDiverged on a non-finite body.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Width:         600,
		Height:        600,
		Boundaries:    physics.AllSides(),
		FPS:           60,
		TimeRes:       1,
		ValidateState: true,
	}
}

// Timestep resolves the configured step length.
func (c Config) Timestep() float64 {
	if c.Dt != 0 {
		return c.Dt
	}
	if c.FPS == 0 {
		return 0
	}
	return c.TimeRes / c.FPS
}

func (c Config) Validate() error {
	if !(c.Width > 0) || !(c.Height > 0) {
		return fmt.Errorf("%w: arena must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Dt == 0 {
		if !(c.FPS > 0) {
			return fmt.Errorf("%w: fps must be positive, got %g", ErrInvalidConfig, c.FPS)
		}
		if !(c.TimeRes > 0) {
			return fmt.Errorf("%w: time resolution must be positive, got %g", ErrInvalidConfig, c.TimeRes)
		}
	} else if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.CellSize < 0 {
		return fmt.Errorf("%w: cell size must not be negative, got %g", ErrInvalidConfig, c.CellSize)
	}
	return nil
}

// Result is the per-step series recorded by Run.
type Result struct {
	Times         []float64
	Momentum      []physics.Vec2
	KineticEnergy []float64
	Contacts      []int
	WallHits      []int
	Metrics       map[string]float64
	StepsTaken    int
	Final         []physics.Body
}
