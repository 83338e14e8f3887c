package event

import (
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/vmath"
)

// Collided is emitted when the collision system pushes an entity out of
// level geometry.
type Collided struct {
	Entity     ecs.Entity
	Correction vmath.Vec2
}

// AnimationChanged is emitted when an entity's logical animation state changes.
type AnimationChanged struct {
	Entity ecs.Entity
	From   string
	To     string
}

// PacketReceived is emitted for every packet drained from the network channel.
type PacketReceived struct {
	Opcode byte
	Size   int
}
