package world

import (
	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/vmath"
)

// Inspection is a read-only debug view of the world.
type Inspection struct {
	Tick          uint64
	Entities      int
	Player        ecs.Entity
	PlayerPos     vmath.Vec2
	PlayerAnim    string
	LevelReady    bool
	DebugRejected int
}

func (w *World) Inspect() Inspection {
	in := Inspection{
		Tick:          w.tick,
		Entities:      w.reg.Size(),
		Player:        w.player,
		LevelReady:    w.level != nil && w.level.Ready(),
		DebugRejected: w.debug.Rejected,
	}
	if pos, _ := ecs.Get[component.Position](w.reg, w.player); pos != nil {
		in.PlayerPos = pos.Current()
	}
	if sp, _ := ecs.Get[component.Sprite](w.reg, w.player); sp != nil {
		in.PlayerAnim = sp.Animation()
	}
	return in
}
