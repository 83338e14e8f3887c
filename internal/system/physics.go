package system

import (
	"time"

	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	coresys "github.com/EverCrawl/client/internal/core/system"
)

// PhysicsSystem integrates velocity into position. Phase 2 (Physics).
type PhysicsSystem struct {
	reg *ecs.Registry
}

func NewPhysicsSystem(reg *ecs.Registry) *PhysicsSystem {
	return &PhysicsSystem{reg: reg}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) Update(_ time.Duration) {
	ecs.Each2(s.reg, func(_ ecs.Entity, pos *component.Position, vel *component.Velocity) {
		pos.Update(pos.Current().Add(vel.Value))
	})
}
