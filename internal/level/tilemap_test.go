package level

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EverCrawl/client/internal/data"
	"github.com/EverCrawl/client/internal/render"
	"github.com/EverCrawl/client/internal/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTextures struct{}

func (stubTextures) Load(path string) *render.Texture { return render.NewTexture(path, 64, 64) }

func grid(rows ...string) func(cx, cy int) bool {
	return func(cx, cy int) bool {
		if cy < 0 || cy >= len(rows) || cx < 0 || cx >= len(rows[cy]) {
			return false
		}
		return rows[cy][cx] == '#'
	}
}

func TestMergeSolidRowsAndColumns(t *testing.T) {
	boxes := mergeSolid(0, 0, 4, 4, grid(
		"###.",
		"###.",
		"#..#",
		"...#",
	), 16)

	require.Len(t, boxes, 3)
	assert.Equal(t, vmath.FromMinMax(vmath.V2(0, 0), vmath.V2(48, 32)), boxes[0])
	assert.Equal(t, vmath.FromMinMax(vmath.V2(0, 32), vmath.V2(16, 48)), boxes[1])
	assert.Equal(t, vmath.FromMinMax(vmath.V2(48, 32), vmath.V2(64, 64)), boxes[2])
}

func TestMergeSolidDoesNotJoinDifferentLengths(t *testing.T) {
	boxes := mergeSolid(0, 0, 3, 3, grid(
		"##.",
		"###",
		"##.",
	), 1)
	assert.Len(t, boxes, 3)
}

func testLevel() *data.Level {
	return &data.Level{
		Name:     "test",
		TileSize: 16,
		Tilesets: []data.Tileset{{
			Name:     "dungeon",
			FirstGID: 1,
			Image:    "dungeon.png",
			Tiles: map[int]data.Properties{
				1: {CollisionProperty: {Type: data.PropertyBool, Value: true}},
			},
		}},
		Layers: []data.Layer{
			{ID: 1, Name: "floor", Chunks: []data.Chunk{
				{X: -1, Y: -1, Width: 3, Height: 3, Tiles: []int{
					1, 1, 1,
					1, 1, 1,
					1, 1, 1,
				}},
			}},
			{ID: 2, Name: "walls", Chunks: []data.Chunk{
				{X: 1, Y: -1, Width: 2, Height: 3, Tiles: []int{
					0, 2,
					0, 2,
					2, 2,
				}},
			}},
		},
	}
}

func TestTileMapGeometry(t *testing.T) {
	m := New(testLevel(), stubTextures{})

	assert.True(t, m.IsSolidAt(2, 0))
	assert.True(t, m.IsSolidAt(1, 1))
	assert.False(t, m.IsSolidAt(0, 0))
	assert.False(t, m.IsSolidAt(1, 0))

	layers := m.Layers()
	require.Len(t, layers, 2)
	assert.Empty(t, layers[0].Collidables)
	require.Len(t, layers[1].Collidables, 2)
	assert.Equal(t, vmath.FromMinMax(vmath.V2(32, -16), vmath.V2(48, 16)), layers[1].Collidables[0])
	assert.Equal(t, vmath.FromMinMax(vmath.V2(16, 16), vmath.V2(48, 32)), layers[1].Collidables[1])
}

func TestCollidableRegionsNear(t *testing.T) {
	m := New(testLevel(), stubTextures{})

	assert.Empty(t, m.CollidableRegionsNear(vmath.NewAABB(vmath.V2(-100, -100), vmath.V2(8, 8))))

	near := m.CollidableRegionsNear(vmath.NewAABB(vmath.V2(24, 8), vmath.V2(8, 8)))
	require.Len(t, near, 2)
	assert.Equal(t, m.Layers()[1].Collidables, near, "layer order then region order, no duplicates")

	near = m.CollidableRegionsNear(vmath.NewAABB(vmath.V2(40, -8), vmath.V2(4, 4)))
	require.Len(t, near, 1)
	assert.Equal(t, m.Layers()[1].Collidables[0], near[0])
}

func TestTileMapNotReady(t *testing.T) {
	m := &TileMap{Path: "pending.yaml"}
	assert.False(t, m.IsSolidAt(0, 0))
	assert.Nil(t, m.CollidableRegionsNear(vmath.NewAABB(vmath.V2(0, 0), vmath.V2(8, 8))))
	assert.Nil(t, m.Layers())
	m.Draw(nil, vmath.V2(0, 0))
}

type tileSink struct {
	render.Sink
	tiles []render.Command
}

func (s *tileSink) SubmitTile(tex *render.Texture, layer int, tile int, pos vmath.Vec2, rot float64, scale vmath.Vec2) {
	s.tiles = append(s.tiles, render.Command{Kind: render.KindTile, Texture: tex, Layer: layer, Tile: tile, Pos: pos, Scale: scale})
}

func TestTileMapDraw(t *testing.T) {
	m := New(testLevel(), stubTextures{})
	sink := &tileSink{}
	m.Draw(sink, vmath.V2(-8, 0))

	require.Len(t, sink.tiles, 9+4)
	first := sink.tiles[0]
	assert.Equal(t, BaseLayer, first.Layer)
	assert.Equal(t, 0, first.Tile)
	assert.Equal(t, vmath.V2(-16, -8), first.Pos)
	assert.Equal(t, vmath.V2(8, 8), first.Scale)

	last := sink.tiles[len(sink.tiles)-1]
	assert.Equal(t, BaseLayer+1, last.Layer)
	assert.Equal(t, 1, last.Tile)
}

func TestMapsLoadInBackground(t *testing.T) {
	dir := t.TempDir()
	src := `
name: room
tile_size: 8
tilesets:
  - {firstgid: 1, image: tiles.png, tiles: {0: {properties: [{name: collision, type: bool, value: "true"}]}}}
layers:
  - name: walls
    chunks:
      - {x: 0, y: 0, width: 2, height: 1, tiles: [1, 1]}
`
	path := filepath.Join(dir, "room.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	maps := NewMaps(stubTextures{}, zap.NewNop())
	m := maps.Load(path)
	assert.Same(t, m, maps.Load(path))

	require.Eventually(t, m.Ready, time.Second, time.Millisecond)
	assert.True(t, m.IsSolidAt(1, 0))
	assert.Len(t, m.Layers()[0].Collidables, 1)

	bad := maps.Load(filepath.Join(dir, "missing.yaml"))
	require.Eventually(t, bad.Failed, time.Second, time.Millisecond)
	assert.False(t, bad.IsSolidAt(0, 0))
}

func TestTileMapsOverOneImageKeepTheirGlyphs(t *testing.T) {
	textures := render.NewTextures(zap.NewNop())
	a, b := testLevel(), testLevel()
	a.Tilesets[0].Glyphs = map[int]rune{0: '.', 1: '#'}
	b.Tilesets[0].Glyphs = map[int]rune{0: ',', 1: '%'}

	ma := New(a, textures)
	mb := New(b, textures)

	ta, tb := ma.tilesets[0].texture, mb.tilesets[0].texture
	assert.Same(t, ta.Image, tb.Image)
	assert.Equal(t, '#', ta.TileGlyph(1))
	assert.Equal(t, '%', tb.TileGlyph(1))
}
