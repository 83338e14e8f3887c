package data

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type rectDef struct {
	X *float64 `yaml:"x"`
	Y *float64 `yaml:"y"`
	W *float64 `yaml:"w"`
	H *float64 `yaml:"h"`
}

type frameDef struct {
	UV    *rectDef `yaml:"uv"`
	Delay *int     `yaml:"delay"` // milliseconds
}

type animationDef struct {
	Name   string     `yaml:"name"`
	Frames []frameDef `yaml:"frames"`
}

type spriteLayerDef struct {
	Name       string         `yaml:"name"`
	Animations []animationDef `yaml:"animations"`
}

type transitionDef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Clip string `yaml:"clip"`
}

type spriteSheetFile struct {
	Texture     string           `yaml:"texture"`
	Glyph       string           `yaml:"glyph"`
	Tint        string           `yaml:"tint"`
	Layers      []spriteLayerDef `yaml:"layers"`
	Transitions []transitionDef  `yaml:"transitions"`
}

// FrameData is one animation frame: a pixel rectangle in the texture and how
// long it stays on screen.
type FrameData struct {
	X, Y, W, H float64
	Delay      time.Duration
}

type AnimationData struct {
	Name   string
	Frames []FrameData
}

type SpriteLayerData struct {
	Name       string
	Animations []AnimationData
}

type TransitionData struct {
	From, To, Clip string
}

// SpriteSheetData is validated sprite sheet authoring data.
type SpriteSheetData struct {
	Texture     string // resolved against the sheet directory
	Glyph       rune
	Tint        color.RGBA
	Layers      []SpriteLayerData
	Transitions []TransitionData
}

// LoadSpriteSheet reads and validates a sprite sheet YAML file.
func LoadSpriteSheet(path string) (*SpriteSheetData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sprite sheet %s: %w", path, err)
	}
	sheet, err := ParseSpriteSheet(raw, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse sprite sheet %s: %w", path, err)
	}
	return sheet, nil
}

// ParseSpriteSheet validates sprite sheet YAML. The texture path resolves against dir.
func ParseSpriteSheet(raw []byte, dir string) (*SpriteSheetData, error) {
	var file spriteSheetFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	if file.Texture == "" {
		return nil, fmt.Errorf("texture: %w", ErrMissingField)
	}
	if len(file.Layers) == 0 {
		return nil, fmt.Errorf("layers: %w", ErrMissingField)
	}

	sheet := &SpriteSheetData{
		Texture: resolvePath(dir, file.Texture),
		Glyph:   '@',
		Tint:    color.RGBA{255, 255, 255, 255},
	}
	if file.Glyph != "" {
		r := []rune(file.Glyph)
		if len(r) != 1 {
			return nil, fmt.Errorf("glyph: %q: %w", file.Glyph, ErrInvalidValue)
		}
		sheet.Glyph = r[0]
	}
	if file.Tint != "" {
		c, err := ParseColor(file.Tint)
		if err != nil {
			return nil, fmt.Errorf("tint: %w", err)
		}
		sheet.Tint = c
	}

	clips := make(map[string]bool)
	for li, ld := range file.Layers {
		lf := fmt.Sprintf("layers[%d]", li)
		if ld.Name == "" {
			return nil, fmt.Errorf("%s.name: %w", lf, ErrMissingField)
		}
		if len(ld.Animations) == 0 {
			return nil, fmt.Errorf("%s.animations: %w", lf, ErrMissingField)
		}
		layer := SpriteLayerData{Name: ld.Name}
		for ai, ad := range ld.Animations {
			anim, err := parseAnimation(fmt.Sprintf("%s.animations[%d]", lf, ai), ad)
			if err != nil {
				return nil, err
			}
			clips[anim.Name] = true
			layer.Animations = append(layer.Animations, anim)
		}
		sheet.Layers = append(sheet.Layers, layer)
	}

	for i, td := range file.Transitions {
		tf := fmt.Sprintf("transitions[%d]", i)
		switch {
		case td.From == "":
			return nil, fmt.Errorf("%s.from: %w", tf, ErrMissingField)
		case td.To == "":
			return nil, fmt.Errorf("%s.to: %w", tf, ErrMissingField)
		case td.Clip == "":
			return nil, fmt.Errorf("%s.clip: %w", tf, ErrMissingField)
		}
		if !clips[td.Clip] {
			return nil, fmt.Errorf("%s.clip: unknown animation %q: %w", tf, td.Clip, ErrInvalidValue)
		}
		sheet.Transitions = append(sheet.Transitions, TransitionData{From: td.From, To: td.To, Clip: td.Clip})
	}
	return sheet, nil
}

func parseAnimation(field string, ad animationDef) (AnimationData, error) {
	if ad.Name == "" {
		return AnimationData{}, fmt.Errorf("%s.name: %w", field, ErrMissingField)
	}
	if len(ad.Frames) == 0 {
		return AnimationData{}, fmt.Errorf("%s.frames: %w", field, ErrMissingField)
	}
	anim := AnimationData{Name: ad.Name}
	for i, fd := range ad.Frames {
		ff := fmt.Sprintf("%s.frames[%d]", field, i)
		if fd.Delay == nil {
			return AnimationData{}, fmt.Errorf("%s.delay: %w", ff, ErrMissingField)
		}
		if *fd.Delay < 0 {
			return AnimationData{}, fmt.Errorf("%s.delay: %d: %w", ff, *fd.Delay, ErrInvalidValue)
		}
		if fd.UV == nil {
			return AnimationData{}, fmt.Errorf("%s.uv: %w", ff, ErrMissingField)
		}
		for _, c := range []struct {
			name string
			v    *float64
		}{{"x", fd.UV.X}, {"y", fd.UV.Y}, {"w", fd.UV.W}, {"h", fd.UV.H}} {
			if c.v == nil {
				return AnimationData{}, fmt.Errorf("%s.uv.%s: %w", ff, c.name, ErrMissingField)
			}
		}
		anim.Frames = append(anim.Frames, FrameData{
			X: *fd.UV.X, Y: *fd.UV.Y, W: *fd.UV.W, H: *fd.UV.H,
			Delay: time.Duration(*fd.Delay) * time.Millisecond,
		})
	}
	return anim, nil
}

// ParseColor parses #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidValue)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidValue)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
