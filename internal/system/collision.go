package system

import (
	"time"

	"github.com/EverCrawl/client/internal/collision"
	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/core/event"
	coresys "github.com/EverCrawl/client/internal/core/system"
)

// Level is collision geometry that may still be loading.
type Level interface {
	collision.Geometry
	Ready() bool
}

// CollisionSystem pushes colliders out of level geometry after physics has
// moved them. Phase 3 (Collision).
type CollisionSystem struct {
	reg   *ecs.Registry
	level Level
	bus   *event.Bus
}

func NewCollisionSystem(reg *ecs.Registry, level Level, bus *event.Bus) *CollisionSystem {
	return &CollisionSystem{reg: reg, level: level, bus: bus}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(_ time.Duration) {
	if s.level == nil || !s.level.Ready() {
		return
	}
	for e, row := range ecs.View2[component.Position, component.Collider](s.reg) {
		pos, col := row.A, row.B
		candidate := pos.Current()
		col.Box = col.Box.MoveTo(candidate)
		corrected, hit := collision.Resolve(col.Box, candidate, s.level)
		if !hit {
			continue
		}
		pos.Correct(corrected)
		col.Box = col.Box.MoveTo(corrected)
		event.Emit(s.bus, event.Collided{Entity: e, Correction: corrected.Sub(candidate)})
	}
}
