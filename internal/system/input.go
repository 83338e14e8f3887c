package system

import (
	"math"
	"time"

	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	coresys "github.com/EverCrawl/client/internal/core/system"
	"github.com/EverCrawl/client/internal/input"
	"github.com/EverCrawl/client/internal/vmath"
)

// SprintMultiplier scales speed while ShiftLeft is held.
const SprintMultiplier = 10

// InputSystem turns the polled keyboard into the player's velocity.
// Phase 0 (Input).
type InputSystem struct {
	reg *ecs.Registry
	src input.Source
}

func NewInputSystem(reg *ecs.Registry, src input.Source) *InputSystem {
	return &InputSystem{reg: reg, src: src}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for _, row := range ecs.View3[component.Player, component.Velocity, component.Speed](s.reg) {
		row.B.Value = s.velocity(row.C.Value)
	}
}

func (s *InputSystem) velocity(speed float64) vmath.Vec2 {
	if s.src.IsPressed(input.KeyShiftLeft) {
		speed *= SprintMultiplier
	}
	var v vmath.Vec2
	if s.src.IsPressed(input.KeyW) {
		v[1] -= speed
	}
	if s.src.IsPressed(input.KeyS) {
		v[1] += speed
	}
	if s.src.IsPressed(input.KeyA) {
		v[0] -= speed
	}
	if s.src.IsPressed(input.KeyD) {
		v[0] += speed
	}
	// diagonal movement keeps the straight-line speed
	if math.Abs(v[0]) == math.Abs(v[1]) {
		v[0] /= math.Sqrt2
		v[1] /= math.Sqrt2
	}
	return v
}
