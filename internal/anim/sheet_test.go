package anim

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EverCrawl/client/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sheetYAML = `texture: atlas.png
glyph: %q
tint: %q
layers:
  - name: body
    animations:
      - name: Idle
        frames:
          - {uv: {x: 0, y: 0, w: 16, h: 16}, delay: 100}
`

func writeSheet(t *testing.T, dir, name string, glyph rune, tint string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(sheetYAML, string(glyph), tint)), 0o644))
	return path
}

func TestSheetsOverOneAtlasKeepTheirGlyphs(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "atlas.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	require.NoError(t, f.Close())

	heroPath := writeSheet(t, dir, "hero.yaml", '@', "#ffffff")
	ratPath := writeSheet(t, dir, "rat.yaml", 'r', "#af875f")

	log := zap.NewNop()
	sheets := NewSheets(render.NewTextures(log), log)
	hero := sheets.Load(heroPath)
	rat := sheets.Load(ratPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, hero.Wait(ctx, time.Millisecond))
	require.NoError(t, rat.Wait(ctx, time.Millisecond))

	require.NotNil(t, hero.Texture)
	require.NotNil(t, rat.Texture)
	assert.Same(t, hero.Texture.Image, rat.Texture.Image)
	assert.Equal(t, '@', hero.Texture.Glyph)
	assert.Equal(t, 'r', rat.Texture.Glyph)
	assert.NotEqual(t, hero.Texture.Tint, rat.Texture.Tint)
}
