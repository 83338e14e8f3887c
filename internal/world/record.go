package world

import (
	"context"
	"time"

	"github.com/EverCrawl/client/internal/persist"
	"go.uber.org/zap"
)

// SnapshotStore persists snapshots. *persist.SnapshotRepo implements it.
type SnapshotStore interface {
	Save(ctx context.Context, s persist.SnapshotRow) (int64, error)
}

// Row converts s for storage under level.
func (s Snapshot) Row(level string) persist.SnapshotRow {
	row := persist.SnapshotRow{
		Level:    level,
		Tick:     s.Tick,
		Checksum: append([]byte(nil), s.Checksum[:]...),
		Entities: make([]persist.EntityRow, len(s.Entities)),
	}
	for i, e := range s.Entities {
		row.Entities[i] = persist.EntityRow{
			Entity:    uint32(e.Entity),
			PosX:      e.Position.X(),
			PosY:      e.Position.Y(),
			VelX:      e.Velocity.X(),
			VelY:      e.Velocity.Y(),
			Animation: e.Animation,
		}
	}
	return row
}

// Recorder saves a snapshot every N ticks off the loop thread. A save still
// in flight when the next one is due causes that one to be skipped.
type Recorder struct {
	store   SnapshotStore
	level   string
	every   uint64
	timeout time.Duration
	log     *zap.Logger

	pending chan persist.SnapshotRow
	done    chan struct{}
	skipped int
}

func NewRecorder(store SnapshotStore, level string, every int, log *zap.Logger) *Recorder {
	if every <= 0 {
		every = 1
	}
	r := &Recorder{
		store:   store,
		level:   level,
		every:   uint64(every),
		timeout: 5 * time.Second,
		log:     log,
		pending: make(chan persist.SnapshotRow, 1),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Observe is called after each World.Update.
func (r *Recorder) Observe(w *World) {
	if w.Tick()%r.every != 0 {
		return
	}
	select {
	case r.pending <- w.Snapshot().Row(r.level):
	default:
		r.skipped++
		r.log.Debug("snapshot skipped, previous save in flight", zap.Uint64("tick", w.Tick()))
	}
}

// Skipped returns how many due snapshots were dropped.
func (r *Recorder) Skipped() int { return r.skipped }

// Close waits for queued saves to finish.
func (r *Recorder) Close() {
	close(r.pending)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for row := range r.pending {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		id, err := r.store.Save(ctx, row)
		cancel()
		if err != nil {
			r.log.Warn("snapshot save failed", zap.Uint64("tick", row.Tick), zap.Error(err))
			continue
		}
		r.log.Debug("snapshot saved", zap.Int64("id", id), zap.Uint64("tick", row.Tick),
			zap.Int("entities", len(row.Entities)))
	}
}
