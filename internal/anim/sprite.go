package anim

import (
	"time"

	"github.com/EverCrawl/client/internal/render"
	"github.com/EverCrawl/client/internal/vmath"
)

// Sprite is one on-screen instance of a sheet.
type Sprite struct {
	Sheet   *Sheet
	Machine *Machine

	clip      string
	frame     int
	lastFrame time.Duration
}

func NewSprite(sheet *Sheet) *Sprite {
	return &Sprite{Sheet: sheet, Machine: NewMachine(sheet)}
}

// Animation names the clip the sprite shows: the machine's clip, or the
// sheet's first clip before any state was set.
func (s *Sprite) Animation() string {
	if p := s.Machine.Playing(); p != "" {
		return p
	}
	return s.Sheet.First()
}

// Frame returns the current frame index.
func (s *Sprite) Frame() int { return s.frame }

// Advance steps the frame clock. A frame is shown for longer than its delay
// before the next one replaces it.
func (s *Sprite) Advance(now time.Duration) {
	if !s.Sheet.Ready() {
		return
	}
	name := s.Animation()
	if name != s.clip {
		s.clip = name
		s.frame = 0
		s.lastFrame = now
		return
	}
	clip, ok := s.Sheet.Clip(name)
	if !ok || len(clip.Frames) == 0 {
		return
	}
	if now-s.lastFrame > clip.Frames[s.frame%len(clip.Frames)].Delay {
		s.frame = (s.frame + 1) % len(clip.Frames)
		s.lastFrame = now
	}
}

// Draw submits the current frame of every sheet layer that has the clip.
// scale multiplies the frame size; the sink receives half-extents.
func (s *Sprite) Draw(sink render.Sink, layer int, pos vmath.Vec2, rot float64, scale vmath.Vec2) {
	if !s.Sheet.Ready() {
		return
	}
	name := s.Animation()
	for _, l := range s.Sheet.layers {
		clip, ok := l.clips[name]
		if !ok || len(clip.Frames) == 0 {
			continue
		}
		uv := clip.Frames[s.frame%len(clip.Frames)].UV
		half := vmath.V2(uv.W*scale.X()/2, uv.H*scale.Y()/2)
		sink.SubmitSprite(s.Sheet.Texture, layer, uv, pos, rot, half)
	}
}
