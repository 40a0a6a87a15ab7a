package physics

import "fmt"

// Body is a circular point mass. Mass and Radius are validated by NewBody;
// Charge is carried for force laws but nothing reads it yet.
type Body struct {
	Pos    Vec2
	Vel    Vec2
	Acc    Vec2
	Mass   float64
	Charge float64
	Radius float64
}

// BodyOption sets an optional field on a body under construction.
type BodyOption func(*Body)

func WithAcceleration(a Vec2) BodyOption { return func(b *Body) { b.Acc = a } }
func WithCharge(q float64) BodyOption    { return func(b *Body) { b.Charge = q } }

// NewBody returns a body at pos moving with vel. It fails with
// ErrInvalidConfiguration when mass or radius is not positive.
func NewBody(pos, vel Vec2, mass, radius float64, opts ...BodyOption) (Body, error) {
	b := Body{Pos: pos, Vel: vel, Mass: mass, Radius: radius}
	for _, opt := range opts {
		opt(&b)
	}
	if err := b.Validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

// Validate reports whether the body can take part in a simulation.
func (b *Body) Validate() error {
	if !(b.Mass > 0) {
		return invalid("mass", b.Mass)
	}
	if !(b.Radius > 0) {
		return invalid("radius", b.Radius)
	}
	return nil
}

// Integrate advances the body by dt: position first, then velocity.
func (b *Body) Integrate(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Vel = b.Vel.Add(b.Acc.Scale(dt))
}

func (b *Body) Momentum() Vec2 { return b.Vel.Scale(b.Mass) }

func (b *Body) KineticEnergy() float64 { return 0.5 * b.Mass * b.Vel.Dot(b.Vel) }

func (b Body) String() string {
	return fmt.Sprintf("%g mass point at (%g, %g)", b.Mass, b.Pos.X, b.Pos.Y)
}

// MeanRadius returns the average radius of bodies, or 0 for an empty slice.
func MeanRadius(bodies []Body) float64 {
	if len(bodies) == 0 {
		return 0
	}
	sum := 0.0
	for i := range bodies {
		sum += bodies[i].Radius
	}
	return sum / float64(len(bodies))
}

// TotalMomentum sums m·v over bodies.
func TotalMomentum(bodies []Body) Vec2 {
	var p Vec2
	for i := range bodies {
		p = p.Add(bodies[i].Momentum())
	}
	return p
}

// TotalKineticEnergy sums ½·m·|v|² over bodies.
func TotalKineticEnergy(bodies []Body) float64 {
	e := 0.0
	for i := range bodies {
		e += bodies[i].KineticEnergy()
	}
	return e
}
