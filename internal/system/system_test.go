package system

import (
	"math"
	"testing"
	"time"

	"github.com/EverCrawl/client/internal/anim"
	"github.com/EverCrawl/client/internal/component"
	"github.com/EverCrawl/client/internal/core/ecs"
	"github.com/EverCrawl/client/internal/core/event"
	coresys "github.com/EverCrawl/client/internal/core/system"
	"github.com/EverCrawl/client/internal/data"
	"github.com/EverCrawl/client/internal/input"
	"github.com/EverCrawl/client/internal/net"
	"github.com/EverCrawl/client/internal/net/packet"
	"github.com/EverCrawl/client/internal/render"
	"github.com/EverCrawl/client/internal/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type keys map[string]bool

func (k keys) IsPressed(code string) bool { return k[code] }

type staticLevel struct {
	ready   bool
	regions []vmath.AABB
}

func (l *staticLevel) Ready() bool { return l.ready }

func (l *staticLevel) CollidableRegionsNear(vmath.AABB) []vmath.AABB { return l.regions }

func newPlayer(r *ecs.Registry) ecs.Entity {
	return r.Create(
		ecs.With(&component.Player{}),
		ecs.With(component.NewPosition(vmath.V2(0, 0))),
		ecs.With(&component.Velocity{}),
		ecs.With(component.NewCollider(vmath.V2(8, 8))),
		ecs.With(&component.Speed{Value: 2}),
	)
}

func TestEndToEndMoveIntoWall(t *testing.T) {
	r := ecs.NewRegistry()
	bus := event.NewBus()
	player := newPlayer(r)
	level := &staticLevel{ready: true, regions: []vmath.AABB{vmath.NewAABB(vmath.V2(16, 0), vmath.V2(16, 16))}}

	NewInputSystem(r, keys{input.KeyD: true}).Update(0)
	vel := ecs.MustGet[component.Velocity](r, player)
	assert.Equal(t, vmath.V2(2, 0), vel.Value)

	NewPhysicsSystem(r).Update(0)
	pos := ecs.MustGet[component.Position](r, player)
	assert.Equal(t, vmath.V2(2, 0), pos.Current())

	NewCollisionSystem(r, level, bus).Update(0)
	assert.Equal(t, vmath.V2(-8, 0), pos.Current())
	assert.Equal(t, vmath.V2(0, 0), pos.Previous())
	assert.Equal(t, vmath.V2(-8, 0), ecs.MustGet[component.Collider](r, player).Box.Center)

	bus.SwapBuffers()
	assert.Equal(t, []event.Collided{{Entity: player, Correction: vmath.V2(-10, 0)}}, event.Pending[event.Collided](bus))
}

func TestCollisionSkipsUntilLevelReady(t *testing.T) {
	r := ecs.NewRegistry()
	player := newPlayer(r)
	level := &staticLevel{regions: []vmath.AABB{vmath.NewAABB(vmath.V2(0, 0), vmath.V2(16, 16))}}
	sys := NewCollisionSystem(r, level, event.NewBus())

	sys.Update(0)
	pos := ecs.MustGet[component.Position](r, player)
	assert.Equal(t, vmath.V2(0, 0), pos.Current())

	level.ready = true
	sys.Update(0)
	assert.NotEqual(t, vmath.V2(0, 0), pos.Current())
}

func TestInputVelocity(t *testing.T) {
	tests := []struct {
		name string
		keys keys
		want vmath.Vec2
	}{
		{"none", keys{}, vmath.V2(0, 0)},
		{"up", keys{input.KeyW: true}, vmath.V2(0, -2)},
		{"sprint left", keys{input.KeyA: true, input.KeyShiftLeft: true}, vmath.V2(-20, 0)},
		{"opposites cancel", keys{input.KeyA: true, input.KeyD: true}, vmath.V2(0, 0)},
		{"diagonal", keys{input.KeyS: true, input.KeyD: true}, vmath.V2(2/math.Sqrt2, 2/math.Sqrt2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ecs.NewRegistry()
			player := newPlayer(r)
			other := r.Create(ecs.With(&component.Velocity{Value: vmath.V2(1, 1)}), ecs.With(&component.Speed{Value: 5}))

			NewInputSystem(r, tt.keys).Update(0)
			assert.True(t, tt.want.ApproxEqual(ecs.MustGet[component.Velocity](r, player).Value))
			assert.Equal(t, vmath.V2(1, 1), ecs.MustGet[component.Velocity](r, other).Value, "only the player reads input")
		})
	}
}

func TestNetworkDispatch(t *testing.T) {
	q := net.NewQueue()
	reg := packet.NewRegistry(zap.NewNop())
	var names []string
	reg.Register(1, func(r *packet.Reader) error {
		names = append(names, r.Str())
		return nil
	})
	bus := event.NewBus()
	sys := NewNetworkSystem(q, reg, bus, zap.NewNop())

	sys.Update(0)
	assert.Empty(t, names)

	w := packet.NewWriter(1)
	require.NoError(t, w.Str("rat"))
	q.Push(w.Bytes())
	q.Push([]byte{42})
	sys.Update(0)

	assert.Equal(t, []string{"rat"}, names)
	assert.False(t, q.HasPending())
	bus.SwapBuffers()
	assert.Len(t, event.Pending[event.PacketReceived](bus), 2)

	NewNetworkSystem(nil, reg, bus, zap.NewNop()).Update(0)
}

type fakeClock struct{ now time.Duration }

func (c *fakeClock) Now() time.Duration { return c.now }

func testSheet() *anim.Sheet {
	frame := []data.FrameData{{W: 16, H: 16, Delay: 100 * time.Millisecond}}
	return anim.NewSheet("hero.yaml", &data.SpriteSheetData{
		Texture: "hero.png",
		Layers: []data.SpriteLayerData{{Name: "body", Animations: []data.AnimationData{
			{Name: "Idle_Down", Frames: frame},
			{Name: "Walk_Right", Frames: frame},
			{Name: "Idle_Right", Frames: frame},
		}}},
	}, render.NewTexture("hero.png", 16, 16))
}

func TestAnimationFollowsVelocity(t *testing.T) {
	r := ecs.NewRegistry()
	bus := event.NewBus()
	clock := &fakeClock{}
	sp := component.NewSprite(testSheet())
	vel := &component.Velocity{}
	e := r.Create(ecs.With(sp), ecs.With(vel))
	sys := NewAnimationSystem(r, clock, bus)

	sys.Update(0)
	assert.Equal(t, "Idle_Down", sp.Animation())

	vel.Value = vmath.V2(2, 0)
	clock.now = 16 * time.Millisecond
	sys.Update(0)
	assert.Equal(t, "Walk_Right", sp.Animation())

	vel.Value = vmath.V2(0, 0)
	sys.Update(0)
	assert.Equal(t, "Idle_Right", sp.Animation())
	assert.Equal(t, anim.Right, sp.Facing)

	bus.SwapBuffers()
	changes := event.Pending[event.AnimationChanged](bus)
	require.Len(t, changes, 3)
	assert.Equal(t, event.AnimationChanged{Entity: e, From: "Walk_Right", To: "Idle_Right"}, changes[2])
}

func TestCleanupFlushesAndDispatches(t *testing.T) {
	r := ecs.NewRegistry()
	bus := event.NewBus()
	var seen []event.Collided
	event.Subscribe(bus, func(ev event.Collided) { seen = append(seen, ev) })

	e := r.Create()
	r.MarkForDestruction(e)
	event.Emit(bus, event.Collided{Entity: e})

	NewCleanupSystem(r, bus, zap.NewNop()).Update(0)
	assert.False(t, r.Alive(e))
	assert.Len(t, seen, 1)
}

func TestRunnerOrdersPhases(t *testing.T) {
	r := ecs.NewRegistry()
	bus := event.NewBus()
	runner := coresys.NewRunner()
	runner.Register(NewCleanupSystem(r, bus, zap.NewNop()))
	runner.Register(NewCollisionSystem(r, &staticLevel{ready: true, regions: []vmath.AABB{vmath.NewAABB(vmath.V2(16, 0), vmath.V2(16, 16))}}, bus))
	runner.Register(NewPhysicsSystem(r))
	runner.Register(NewInputSystem(r, keys{input.KeyD: true}))
	player := newPlayer(r)

	runner.Tick(time.Second / 60)
	assert.Equal(t, vmath.V2(-8, 0), ecs.MustGet[component.Position](r, player).Current())
}
