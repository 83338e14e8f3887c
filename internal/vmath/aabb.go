package vmath

import "math"

// AABB is an axis-aligned box described by its center and half-extents.
type AABB struct {
	Center Vec2
	Half   Vec2
}

func NewAABB(center, half Vec2) AABB {
	return AABB{Center: center, Half: half}
}

// FromMinMax builds a box from its corners.
func FromMinMax(min, max Vec2) AABB {
	return AABB{
		Center: Vec2{(min[0] + max[0]) / 2, (min[1] + max[1]) / 2},
		Half:   Vec2{(max[0] - min[0]) / 2, (max[1] - min[1]) / 2},
	}
}

func (b AABB) Left() float64   { return b.Center[0] - b.Half[0] }
func (b AABB) Right() float64  { return b.Center[0] + b.Half[0] }
func (b AABB) Top() float64    { return b.Center[1] - b.Half[1] }
func (b AABB) Bottom() float64 { return b.Center[1] + b.Half[1] }

// MoveTo returns the box re-centered on c.
func (b AABB) MoveTo(c Vec2) AABB {
	b.Center = c
	return b
}

// Overlaps reports strict overlap; boxes that only touch do not overlap.
func (b AABB) Overlaps(o AABB) bool {
	return b.Left() < o.Right() && o.Left() < b.Right() &&
		b.Top() < o.Bottom() && o.Top() < b.Bottom()
}

// Penetration returns the displacement that pushes a out of b along the axis
// of least overlap, in the direction of the center delta b→a. The second
// result is false when the boxes do not overlap. Equal overlaps resolve on X,
// and a zero center delta pushes in the positive direction.
func Penetration(a, b AABB) (Vec2, bool) {
	dx := a.Center[0] - b.Center[0]
	ox := (a.Half[0] + b.Half[0]) - math.Abs(dx)
	if ox <= 0 {
		return Vec2{}, false
	}
	dy := a.Center[1] - b.Center[1]
	oy := (a.Half[1] + b.Half[1]) - math.Abs(dy)
	if oy <= 0 {
		return Vec2{}, false
	}
	if ox <= oy {
		return Vec2{ox * sign(dx), 0}, true
	}
	return Vec2{0, oy * sign(dy)}, true
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
