package world

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/vmath"
	"golang.org/x/crypto/blake2b"
)

// EntityState is the simulated state of one positioned entity.
type EntityState struct {
	Entity    ecs.Entity
	Position  vmath.Vec2
	Velocity  vmath.Vec2
	Animation string
}

// Snapshot captures the simulation at a tick. Two runs fed the same input
// produce equal checksums.
type Snapshot struct {
	Tick     uint64
	Entities []EntityState
	Checksum [blake2b.Size256]byte
}

func (s Snapshot) ChecksumHex() string { return hex.EncodeToString(s.Checksum[:]) }

// Snapshot returns every positioned entity in insertion order together with
// a blake2b-256 checksum over tick, ids, positions and velocities.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{Tick: w.tick}
	for e, pos := range ecs.View1[component.Position](w.reg) {
		st := EntityState{Entity: e, Position: pos.Current()}
		if vel, _ := ecs.Get[component.Velocity](w.reg, e); vel != nil {
			st.Velocity = vel.Value
		}
		if sp, _ := ecs.Get[component.Sprite](w.reg, e); sp != nil {
			st.Animation = sp.Animation()
		}
		snap.Entities = append(snap.Entities, st)
	}
	snap.Checksum = checksum(snap)
	return snap
}

func checksum(s Snapshot) [blake2b.Size256]byte {
	buf := make([]byte, 0, 8+len(s.Entities)*36)
	buf = binary.LittleEndian.AppendUint64(buf, s.Tick)
	for _, e := range s.Entities {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.Entity))
		for _, f := range [4]float64{e.Position[0], e.Position[1], e.Velocity[0], e.Velocity[1]} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
	}
	return blake2b.Sum256(buf)
}
