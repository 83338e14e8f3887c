package render

import (
	"errors"
	"image/color"
	"sort"

	"github.com/EverCrawl/client/internal/vmath"
	"go.uber.org/zap"
)

// ErrCapacity reports a debug primitive rejected because its buffer is full.
var ErrCapacity = errors.New("debug draw buffer full")

// DefaultDebugCapacity is the number of lines plus points kept per frame.
const DefaultDebugCapacity = 4096

type Kind uint8

const (
	KindSprite Kind = iota
	KindTile
	KindLine
	KindPoint
)

// Rect is a UV or pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Command is one queued draw.
type Command struct {
	Kind     Kind
	Texture  *Texture
	Layer    int
	UV       Rect
	Tile     int
	Pos      vmath.Vec2
	Rotation float64
	Scale    vmath.Vec2
	To       vmath.Vec2
	Color    color.RGBA
}

// Sink accepts draw commands for one frame.
type Sink interface {
	SubmitSprite(tex *Texture, layer int, uv Rect, pos vmath.Vec2, rot float64, scale vmath.Vec2)
	SubmitTile(tex *Texture, layer int, tile int, pos vmath.Vec2, rot float64, scale vmath.Vec2)
	SubmitLine(p0, p1 vmath.Vec2, c color.RGBA) error
	SubmitPoint(pos vmath.Vec2, c color.RGBA) error
	Flush() error
}

// Backend draws a frame worth of commands, already in draw order.
type Backend interface {
	Draw(cmds []Command) error
}

// Queue buffers commands and hands them to a Backend on Flush. Textured
// commands are ordered by layer ascending, ties kept in submission order;
// lines and points are drawn last.
type Queue struct {
	backend  Backend
	cmds     []Command
	debug    []Command
	debugCap int
	rejected int
	log      *zap.Logger
}

type QueueOption func(*Queue)

func WithDebugCapacity(n int) QueueOption {
	return func(q *Queue) { q.debugCap = n }
}

func NewQueue(backend Backend, log *zap.Logger, opts ...QueueOption) *Queue {
	q := &Queue{
		backend:  backend,
		cmds:     make([]Command, 0, 1024),
		debugCap: DefaultDebugCapacity,
		log:      log,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.debug = make([]Command, 0, q.debugCap)
	return q
}

func (q *Queue) SubmitSprite(tex *Texture, layer int, uv Rect, pos vmath.Vec2, rot float64, scale vmath.Vec2) {
	q.cmds = append(q.cmds, Command{Kind: KindSprite, Texture: tex, Layer: layer, UV: uv, Pos: pos, Rotation: rot, Scale: scale})
}

func (q *Queue) SubmitTile(tex *Texture, layer int, tile int, pos vmath.Vec2, rot float64, scale vmath.Vec2) {
	q.cmds = append(q.cmds, Command{Kind: KindTile, Texture: tex, Layer: layer, Tile: tile, Pos: pos, Rotation: rot, Scale: scale})
}

func (q *Queue) SubmitLine(p0, p1 vmath.Vec2, c color.RGBA) error {
	return q.pushDebug(Command{Kind: KindLine, Pos: p0, To: p1, Color: c})
}

// SubmitPoint draws an opaque point; the alpha channel of c is ignored.
func (q *Queue) SubmitPoint(pos vmath.Vec2, c color.RGBA) error {
	c.A = 255
	return q.pushDebug(Command{Kind: KindPoint, Pos: pos, Color: c})
}

func (q *Queue) pushDebug(cmd Command) error {
	if len(q.debug) >= q.debugCap {
		q.rejected++
		return ErrCapacity
	}
	q.debug = append(q.debug, cmd)
	return nil
}

// Pending returns the number of commands waiting for Flush.
func (q *Queue) Pending() int { return len(q.cmds) + len(q.debug) }

// Rejected returns how many debug primitives were dropped since creation.
func (q *Queue) Rejected() int { return q.rejected }

// Flush sorts and draws the queued commands, then clears the queue. Commands
// whose texture is not ready yet are skipped.
func (q *Queue) Flush() error {
	frame := q.cmds[:0:0]
	frame = append(frame, q.cmds...)
	n := 0
	for _, cmd := range frame {
		if cmd.Texture == nil || cmd.Texture.Image == nil || !cmd.Texture.Ready() {
			continue
		}
		frame[n] = cmd
		n++
	}
	frame = frame[:n]
	sort.SliceStable(frame, func(i, j int) bool { return frame[i].Layer < frame[j].Layer })
	frame = append(frame, q.debug...)

	q.cmds = q.cmds[:0]
	q.debug = q.debug[:0]
	return q.backend.Draw(frame)
}
