package system

import (
	"time"

	"github.com/EverCrawl/client/internal/core/event"
	coresys "github.com/EverCrawl/client/internal/core/system"
	"github.com/EverCrawl/client/internal/net"
	"github.com/EverCrawl/client/internal/net/packet"
	"go.uber.org/zap"
)

// NetworkSystem drains the packet channel and dispatches every packet
// through the opcode registry. Phase 1 (Network).
type NetworkSystem struct {
	ch       net.Channel
	registry *packet.Registry
	bus      *event.Bus
	log      *zap.Logger
}

// NewNetworkSystem returns a system that does nothing when ch is nil.
func NewNetworkSystem(ch net.Channel, registry *packet.Registry, bus *event.Bus, log *zap.Logger) *NetworkSystem {
	return &NetworkSystem{ch: ch, registry: registry, bus: bus, log: log}
}

func (s *NetworkSystem) Phase() coresys.Phase { return coresys.PhaseNetwork }

func (s *NetworkSystem) Update(_ time.Duration) {
	if s.ch == nil || !s.ch.HasPending() {
		return
	}
	for _, data := range s.ch.DrainAll() {
		if len(data) > 0 {
			event.Emit(s.bus, event.PacketReceived{Opcode: data[0], Size: len(data)})
		}
		if err := s.registry.Dispatch(data); err != nil {
			s.log.Debug("packet dispatch error", zap.Error(err))
		}
	}
}
