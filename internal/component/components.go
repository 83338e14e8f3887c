package component

import (
	"github.com/EverCrawl/client/internal/anim"
	"github.com/EverCrawl/client/internal/vmath"
)

// Velocity is the displacement applied per simulation tick.
type Velocity struct {
	Value vmath.Vec2
}

// Speed is the input-driven movement speed in pixels per tick.
type Speed struct {
	Value float64
}

// Collider is re-centered on the entity's position before every collision pass.
type Collider struct {
	Box vmath.AABB
}

func NewCollider(half vmath.Vec2) *Collider {
	return &Collider{Box: vmath.NewAABB(vmath.Vec2{}, half)}
}

// Sprite binds an animated sprite instance and remembers the facing used
// for idle animations.
type Sprite struct {
	*anim.Sprite
	Facing anim.Direction
	Layer  int
	Scale  vmath.Vec2
}

func NewSprite(sheet *anim.Sheet) *Sprite {
	return &Sprite{Sprite: anim.NewSprite(sheet), Scale: vmath.V2(1, 1)}
}

// Player tags the locally controlled entity.
type Player struct {
	Name string
}

// Remote tags an entity spawned by a script or the server.
type Remote struct {
	ID uint32
}
