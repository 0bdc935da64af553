package core

// Vec2 is a 2D vector in render/world coordinates
type Vec2 struct {
	X, Y float64
}

// Scale returns the vector multiplied by a scalar
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Lerp blends two vectors: t=0 returns v, t=1 returns o
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{
		X: t*o.X + (1-t)*v.X,
		Y: t*o.Y + (1-t)*v.Y,
	}
}
