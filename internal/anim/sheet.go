// Package anim plays sprite sheet animations and sequences state changes
// through optional transition clips.
package anim

import (
	"time"

	"github.com/EverCrawl/client/internal/asset"
	"github.com/EverCrawl/client/internal/data"
	"github.com/EverCrawl/client/internal/render"
	"go.uber.org/zap"
)

type Frame struct {
	UV    render.Rect
	Delay time.Duration
}

// Clip is one named animation on one sheet layer.
type Clip struct {
	Name   string
	Frames []Frame
}

// Duration is the sum of the clip's frame delays.
func (c *Clip) Duration() time.Duration {
	var d time.Duration
	for _, f := range c.Frames {
		d += f.Delay
	}
	return d
}

type sheetLayer struct {
	name  string
	clips map[string]*Clip
}

// Sheet is a loaded sprite sheet. Every accessor returns zero values until
// Ready reports true.
type Sheet struct {
	asset.Status

	Path    string
	Texture *render.Texture

	layers      []sheetLayer
	first       string
	transitions Transitions
}

// NewSheet builds a ready sheet from parsed data.
func NewSheet(path string, d *data.SpriteSheetData, tex *render.Texture) *Sheet {
	s := &Sheet{Path: path}
	s.fill(d, tex)
	s.MarkReady()
	return s
}

func (s *Sheet) fill(d *data.SpriteSheetData, tex *render.Texture) {
	s.Texture = tex
	s.transitions = make(Transitions, len(d.Transitions))
	for _, t := range d.Transitions {
		s.transitions.Add(State(t.From), State(t.To), t.Clip)
	}
	for _, ld := range d.Layers {
		layer := sheetLayer{name: ld.Name, clips: make(map[string]*Clip, len(ld.Animations))}
		for _, ad := range ld.Animations {
			clip := &Clip{Name: ad.Name, Frames: make([]Frame, len(ad.Frames))}
			for i, f := range ad.Frames {
				clip.Frames[i] = Frame{UV: render.Rect{X: f.X, Y: f.Y, W: f.W, H: f.H}, Delay: f.Delay}
			}
			layer.clips[ad.Name] = clip
			if s.first == "" {
				s.first = ad.Name
			}
		}
		s.layers = append(s.layers, layer)
	}
}

// First names the first clip of the first layer.
func (s *Sheet) First() string {
	if !s.Ready() {
		return ""
	}
	return s.first
}

// Clip returns the named clip from the first layer that has it.
func (s *Sheet) Clip(name string) (*Clip, bool) {
	if !s.Ready() {
		return nil, false
	}
	for _, l := range s.layers {
		if c, ok := l.clips[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// Transition implements Lookup.
func (s *Sheet) Transition(from, to State) (string, bool) {
	if !s.Ready() {
		return "", false
	}
	return s.transitions.Lookup(from, to)
}

// Duration implements Lookup.
func (s *Sheet) Duration(clip string) time.Duration {
	c, ok := s.Clip(clip)
	if !ok {
		return 0
	}
	return c.Duration()
}

// Sheets loads sprite sheets in the background, one object per path.
type Sheets struct {
	cache    *asset.Cache[Sheet]
	textures *render.Textures
	log      *zap.Logger
}

func NewSheets(textures *render.Textures, log *zap.Logger) *Sheets {
	ss := &Sheets{textures: textures, log: log}
	ss.cache = asset.NewCache(ss.start)
	return ss
}

func (ss *Sheets) Load(path string) *Sheet {
	return ss.cache.Load(path)
}

func (ss *Sheets) start(path string) *Sheet {
	s := &Sheet{Path: path}
	go func() {
		d, err := data.LoadSpriteSheet(path)
		if err != nil {
			ss.log.Error("sprite sheet load failed", zap.String("path", path), zap.Error(err))
			s.Fail(err)
			return
		}
		// Load hands out a handle private to this sheet.
		tex := ss.textures.Load(d.Texture)
		tex.Glyph, tex.Tint = d.Glyph, d.Tint
		s.fill(d, tex)
		s.MarkReady()
		ss.log.Debug("sprite sheet loaded", zap.String("path", path), zap.Int("layers", len(s.layers)))
	}()
	return s
}
