// Package vmath holds the small amount of 2D math the simulation needs:
// vectors, axis-aligned boxes and interpolated state.
package vmath

import "math"

// Epsilon is the tolerance used by ApproxEqual.
const Epsilon = 0.000001

// Vec2 is a 2D vector. Index 0 is x, index 1 is y; y grows downwards.
type Vec2 [2]float64

func V2(x, y float64) Vec2 { return Vec2{x, y} }

func (v Vec2) X() float64 { return v[0] }
func (v Vec2) Y() float64 { return v[1] }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v[0] + o[0], v[1] + o[1]} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v[0] - o[0], v[1] - o[1]} }
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v[0] * o[0], v[1] * o[1]} }
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}
func (v Vec2) Negate() Vec2 { return Vec2{-v[0], -v[1]} }

func (v Vec2) Len() float64 { return math.Hypot(v[0], v[1]) }

// Normalize returns v scaled to unit length, or the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v[0] / l, v[1] / l}
}

func (v Vec2) IsZero() bool { return v[0] == 0 && v[1] == 0 }

// ApproxEqual compares component-wise within Epsilon.
func (v Vec2) ApproxEqual(o Vec2) bool {
	return math.Abs(v[0]-o[0]) <= Epsilon && math.Abs(v[1]-o[1]) <= Epsilon
}

// Lerp returns start*(1-weight) + end*weight.
func Lerp(start, end, weight float64) float64 {
	return start*(1-weight) + end*weight
}

// LerpVec2 interpolates each component with Lerp.
func LerpVec2(a, b Vec2, weight float64) Vec2 {
	return Vec2{Lerp(a[0], b[0], weight), Lerp(a[1], b[1], weight)}
}

func Clamp(v, lo, hi float64) float64 {
	switch {
	case v <= lo:
		return lo
	case v >= hi:
		return hi
	}
	return v
}
