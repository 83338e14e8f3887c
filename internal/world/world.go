// Package world assembles the registry, systems and level into one
// simulation that the loop updates and draws.
package world

import (
	"errors"
	"image/color"
	"time"

	"github.com/EverCrawl/client/internal/anim"
	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/core/event"
	coresys "github.com/EverCrawl/client/internal/core/system"
	"github.com/EverCrawl/client/internal/input"
	"github.com/EverCrawl/client/internal/net"
	"github.com/EverCrawl/client/internal/net/packet"
	"github.com/EverCrawl/client/internal/render"
	"github.com/EverCrawl/client/internal/system"
	"github.com/EverCrawl/client/internal/vmath"
	"go.uber.org/zap"
)

// Level is the map a world plays on. *level.TileMap implements it.
type Level interface {
	system.Level
	Draw(sink render.Sink, offset vmath.Vec2)
}

type Config struct {
	Step  time.Duration // fixed simulation step
	Debug bool          // draw colliders and positions
}

// Deps are the collaborators a World drives. Channel and Packets may be nil
// for offline play and Level may be nil for an empty world. Input and Clock
// default to an idle keyboard and the wall clock.
type Deps struct {
	Level   Level
	Input   input.Source
	Channel net.Channel
	Packets *packet.Registry
	Clock   anim.Clock
	Log     *zap.Logger
}

// World owns the entity registry and runs the systems over it.
type World struct {
	cfg    Config
	reg    *ecs.Registry
	bus    *event.Bus
	runner *coresys.Runner
	level  Level
	log    *zap.Logger

	player ecs.Entity
	tick   uint64
	debug  DebugStats
}

// DebugStats counts debug primitives the sink rejected.
type DebugStats struct {
	Rejected int
}

func New(cfg Config, deps Deps) *World {
	if cfg.Step <= 0 {
		cfg.Step = time.Second / 60
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	packets := deps.Packets
	if packets == nil {
		packets = packet.NewRegistry(log)
	}
	src := deps.Input
	if src == nil {
		src = input.NewKeyboard()
	}
	clock := deps.Clock
	if clock == nil {
		start := time.Now()
		clock = anim.ClockFunc(func() time.Duration { return time.Since(start) })
	}
	w := &World{
		cfg:    cfg,
		reg:    ecs.NewRegistry(),
		bus:    event.NewBus(),
		runner: coresys.NewRunner(),
		level:  deps.Level,
		log:    log,
		player: ecs.Null,
	}

	var lvl system.Level
	if deps.Level != nil {
		lvl = deps.Level
	}
	w.runner.Register(system.NewInputSystem(w.reg, src))
	w.runner.Register(system.NewNetworkSystem(deps.Channel, packets, w.bus, log.Named("net")))
	w.runner.Register(system.NewPhysicsSystem(w.reg))
	w.runner.Register(system.NewCollisionSystem(w.reg, lvl, w.bus))
	w.runner.Register(system.NewAnimationSystem(w.reg, clock, w.bus))
	w.runner.Register(system.NewCleanupSystem(w.reg, w.bus, log))
	return w
}

func (w *World) Registry() *ecs.Registry { return w.reg }

func (w *World) Bus() *event.Bus { return w.bus }

func (w *World) Tick() uint64 { return w.tick }

// Player returns the locally controlled entity, or ecs.Null.
func (w *World) Player() ecs.Entity { return w.player }

// SpawnPlayer creates the player entity and makes the camera follow it.
func (w *World) SpawnPlayer(sheet *anim.Sheet, pos vmath.Vec2) ecs.Entity {
	w.player = CreatePlayer(w.reg, sheet, pos)
	return w.player
}

// ToggleDebug flips collider and position drawing. Call it from the loop
// thread.
func (w *World) ToggleDebug() bool {
	w.cfg.Debug = !w.cfg.Debug
	return w.cfg.Debug
}

// Update advances the simulation by one fixed step.
func (w *World) Update() {
	w.runner.Tick(w.cfg.Step)
	w.tick++
}

// Draw renders the frame at interpolation factor alpha and flushes sink.
// The level is shifted so the player stays at the origin; other sprites
// draw before the player so the player ends up on top.
func (w *World) Draw(sink render.Sink, alpha float64) error {
	var offset vmath.Vec2
	if pos, err := ecs.Get[component.Position](w.reg, w.player); err == nil && pos != nil {
		offset = pos.Get(alpha).Negate()
	}

	if w.level != nil {
		w.level.Draw(sink, offset)
	}

	for e, row := range ecs.View2[component.Sprite, component.Position](w.reg) {
		if e == w.player {
			continue
		}
		w.drawSprite(sink, row.A, row.B.Get(alpha).Add(offset))
	}
	if sp, err := ecs.Get[component.Sprite](w.reg, w.player); err == nil && sp != nil {
		pos := ecs.MustGet[component.Position](w.reg, w.player)
		w.drawSprite(sink, sp, pos.Get(alpha).Add(offset))
	}

	if w.cfg.Debug {
		w.drawDebug(sink, alpha, offset)
	}
	return sink.Flush()
}

func (w *World) drawSprite(sink render.Sink, sp *component.Sprite, pos vmath.Vec2) {
	sp.Draw(sink, sp.Layer, pos, 0, sp.Scale)
}

var (
	colliderColor = color.RGBA{R: 255, A: 255}
	positionColor = color.RGBA{G: 255, A: 255}
)

func (w *World) drawDebug(sink render.Sink, alpha float64, offset vmath.Vec2) {
	var errs []error
	for _, row := range ecs.View2[component.Position, component.Collider](w.reg) {
		center := row.A.Get(alpha).Add(offset)
		box := row.B.Box.MoveTo(center)
		tl, tr := vmath.V2(box.Left(), box.Top()), vmath.V2(box.Right(), box.Top())
		bl, br := vmath.V2(box.Left(), box.Bottom()), vmath.V2(box.Right(), box.Bottom())
		errs = append(errs,
			sink.SubmitLine(tl, tr, colliderColor),
			sink.SubmitLine(tr, br, colliderColor),
			sink.SubmitLine(br, bl, colliderColor),
			sink.SubmitLine(bl, tl, colliderColor),
		)
	}
	for _, pos := range ecs.View1[component.Position](w.reg) {
		errs = append(errs, sink.SubmitPoint(pos.Get(alpha).Add(offset), positionColor))
	}
	for _, err := range errs {
		if errors.Is(err, render.ErrCapacity) {
			w.debug.Rejected++
		}
	}
}
