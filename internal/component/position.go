package component

import "github.com/EverCrawl/client/internal/vmath"

// Position is an interpolated world position in pixels. Systems move it with
// Update once per tick; renderers read Get(alpha).
type Position struct {
	vmath.Interpolated[vmath.Vec2]
}

func NewPosition(v vmath.Vec2) *Position {
	return &Position{Interpolated: vmath.NewInterpolated(v, vmath.LerpVec2)}
}

// Correct replaces the current value without shifting it into previous.
// Only the collision system calls it, after Update already ran this tick.
func (p *Position) Correct(v vmath.Vec2) {
	prev := p.Previous()
	p.Reset(prev)
	p.Update(v)
}
