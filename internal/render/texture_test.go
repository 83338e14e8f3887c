package render

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestTexturesShareImageNotGlyphs(t *testing.T) {
	path := writePNG(t, 32, 16)
	ts := NewTextures(zap.NewNop())

	hero := ts.Load(path)
	rat := ts.Load(path)
	hero.Glyph, hero.Tint = 'H', color.RGBA{200, 0, 0, 255}
	rat.Glyph, rat.Tint = 'r', color.RGBA{0, 200, 0, 255}
	rat.Glyphs = map[int]rune{3: '#'}

	assert.Same(t, hero.Image, rat.Image)
	assert.NotSame(t, hero, rat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, hero.Wait(ctx, time.Millisecond))

	assert.Equal(t, 32, rat.Width)
	assert.Equal(t, 16, rat.Height)
	assert.Equal(t, 'H', hero.Glyph)
	assert.Equal(t, 'r', rat.Glyph)
	assert.Equal(t, color.RGBA{200, 0, 0, 255}, hero.Tint)
	assert.Equal(t, '.', hero.TileGlyph(3))
	assert.Equal(t, '#', rat.TileGlyph(3))
}

func TestTexturesLoadFailure(t *testing.T) {
	ts := NewTextures(zap.NewNop())
	tex := ts.Load(filepath.Join(t.TempDir(), "missing.png"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Error(t, tex.Wait(ctx, time.Millisecond))
	assert.True(t, tex.Failed())
	assert.False(t, tex.Ready())
}
