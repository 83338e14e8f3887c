package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/EverCrawl/client/internal/asset"
	"go.uber.org/zap"
)

// Image is a decoded image header, shared by every texture drawn from the
// same file. Width and Height are only meaningful once Ready reports true.
type Image struct {
	asset.Status

	Path   string
	Width  int
	Height int
}

// Texture is one asset's handle on an Image. Glyph and Tint describe the
// texture on character-cell backends and Glyphs maps atlas tile indices to
// characters. They belong to the handle, so two sheets over one image never
// see each other's glyphs.
type Texture struct {
	*Image

	Glyph  rune
	Tint   color.RGBA
	Glyphs map[int]rune
}

func newHandle(img *Image) *Texture {
	return &Texture{Image: img, Glyph: '@', Tint: color.RGBA{255, 255, 255, 255}}
}

// NewTexture returns a texture that is ready immediately, for procedural or
// pre-sized images.
func NewTexture(path string, width, height int) *Texture {
	img := &Image{Path: path, Width: width, Height: height}
	img.MarkReady()
	return newHandle(img)
}

// TileGlyph returns the character for an atlas tile index.
func (t *Texture) TileGlyph(tile int) rune {
	if g, ok := t.Glyphs[tile]; ok {
		return g
	}
	return '.'
}

// Textures loads image headers in the background and deduplicates by path.
type Textures struct {
	cache *asset.Cache[Image]
	log   *zap.Logger
}

func NewTextures(log *zap.Logger) *Textures {
	ts := &Textures{log: log}
	ts.cache = asset.NewCache(ts.start)
	return ts
}

// Load returns a fresh handle for path. The underlying Image is decoded once
// and shared by every handle for the same path.
func (ts *Textures) Load(path string) *Texture {
	return newHandle(ts.cache.Load(path))
}

func (ts *Textures) start(path string) *Image {
	t := &Image{Path: path}
	go func() {
		w, h, err := decodeSize(path)
		if err != nil {
			ts.log.Warn("texture load failed", zap.String("path", path), zap.Error(err))
			t.Fail(err)
			return
		}
		t.Width, t.Height = w, h
		t.MarkReady()
		ts.log.Debug("texture loaded", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	}()
	return t
}

func decodeSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
