package world

import (
	"github.com/EverCrawl/client/internal/anim"
	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/vmath"
)

const (
	PlayerSpeed = 2
	SpriteLayer = 0
)

// PlayerHalfExtents is the collider size of player-like entities.
var PlayerHalfExtents = vmath.V2(8, 8)

// CreatePlayer creates the locally controlled entity at pos.
func CreatePlayer(r *ecs.Registry, sheet *anim.Sheet, pos vmath.Vec2) ecs.Entity {
	return r.Create(
		ecs.With(&component.Player{}),
		ecs.With(component.NewSprite(sheet)),
		ecs.With(component.NewCollider(PlayerHalfExtents)),
		ecs.With(component.NewPosition(pos)),
		ecs.With(&component.Speed{Value: PlayerSpeed}),
		ecs.With(&component.Velocity{}),
	)
}

// CreateRemote creates a non-controlled character, e.g. from a spawn script.
// A zero speed falls back to PlayerSpeed.
func CreateRemote(r *ecs.Registry, id uint32, sheet *anim.Sheet, pos vmath.Vec2, speed float64) ecs.Entity {
	if speed == 0 {
		speed = PlayerSpeed
	}
	return r.Create(
		ecs.With(&component.Remote{ID: id}),
		ecs.With(component.NewSprite(sheet)),
		ecs.With(component.NewCollider(PlayerHalfExtents)),
		ecs.With(component.NewPosition(pos)),
		ecs.With(&component.Speed{Value: speed}),
		ecs.With(&component.Velocity{}),
	)
}
