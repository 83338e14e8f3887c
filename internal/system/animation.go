package system

import (
	"time"

	"github.com/EverCrawl/client/internal/anim"
	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/core/event"
	coresys "github.com/EverCrawl/client/internal/core/system"
)

// AnimationSystem derives each sprite's state from its velocity and steps
// the state machine and frame clock. Phase 4 (Animation).
type AnimationSystem struct {
	reg   *ecs.Registry
	clock anim.Clock
	bus   *event.Bus
}

func NewAnimationSystem(reg *ecs.Registry, clock anim.Clock, bus *event.Bus) *AnimationSystem {
	return &AnimationSystem{reg: reg, clock: clock, bus: bus}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseAnimation }

func (s *AnimationSystem) Update(_ time.Duration) {
	now := s.clock.Now()
	for e, row := range ecs.View2[component.Sprite, component.Velocity](s.reg) {
		sp, vel := row.A, row.B
		state, facing := anim.DeriveState(anim.DirectionOf(vel.Value), !vel.Value.IsZero(), sp.Facing)
		sp.Facing = facing
		if prev := sp.Machine.State(); state != prev {
			sp.Machine.Set(state)
			event.Emit(s.bus, event.AnimationChanged{Entity: e, From: string(prev), To: string(state)})
		}
		sp.Machine.Update(now)
		sp.Advance(now)
	}
}
