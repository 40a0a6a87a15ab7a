package physics

import "math"

// Vec2 is a 2D vector in arena coordinates (x to the right, y down).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }
func (v Vec2) Equal(o Vec2) bool    { return v.X == o.X && v.Y == o.Y }
func (v Vec2) IsFinite() bool       { return isFinite(v.X) && isFinite(v.Y) }

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vec2) Unit() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// FromAngle returns the unit vector at angle theta (radians).
func FromAngle(theta float64) Vec2 {
	s, c := math.Sincos(theta)
	return Vec2{c, s}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
