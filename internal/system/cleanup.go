package system

import (
	"time"

	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/core/event"
	coresys "github.com/EverCrawl/client/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem destroys entities queued during the tick, then publishes
// the tick's events. Phase 5 (Cleanup).
type CleanupSystem struct {
	reg *ecs.Registry
	bus *event.Bus
	log *zap.Logger
}

func NewCleanupSystem(reg *ecs.Registry, bus *event.Bus, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{reg: reg, bus: bus, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.reg.FlushDestroyQueue(); n > 0 {
		s.log.Debug("destroyed entities", zap.Int("count", n))
	}
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
