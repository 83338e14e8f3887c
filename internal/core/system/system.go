package system

import "time"

// Phase defines execution ordering within a single simulation tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: sample keyboard into velocity
	PhaseNetwork                // 1: drain the packet channel
	PhasePhysics                // 2: integrate positions
	PhaseCollision              // 3: resolve against level geometry
	PhaseAnimation              // 4: derive animation state
	PhaseCleanup                // 5: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseNetwork:
		return "network"
	case PhasePhysics:
		return "physics"
	case PhaseCollision:
		return "collision"
	case PhaseAnimation:
		return "animation"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements. dt is always the
// fixed simulation step.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
