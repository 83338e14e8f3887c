// Package level turns level authoring data into drawable tile layers and
// static collision geometry.
package level

import (
	"math"
	"slices"

	"github.com/EverCrawl/client/internal/asset"
	"github.com/EverCrawl/client/internal/data"
	"github.com/EverCrawl/client/internal/render"
	"github.com/EverCrawl/client/internal/vmath"
	"go.uber.org/zap"
)

// BaseLayer is the render layer of the first tile layer; later tile layers
// stack above it and stay below sprites at layer 0.
const BaseLayer = -16

// CollisionProperty marks solid tiles, or a whole solid layer.
const CollisionProperty = "collision"

// TextureSource resolves texture paths to handles the caller may decorate.
// *render.Textures implements it.
type TextureSource interface {
	Load(path string) *render.Texture
}

// Layer is one tile layer with its merged solid rectangles.
type Layer struct {
	ID          int
	Name        string
	Collidables []vmath.AABB

	chunks []data.Chunk
}

type tileset struct {
	firstGID int
	texture  *render.Texture
}

// TileMap is immutable once Ready reports true. Queries made before then
// see an empty map.
type TileMap struct {
	asset.Status

	Path     string
	Name     string
	TileSize float64

	layers   []Layer
	tilesets []tileset
	level    *data.Level
	solid    map[[2]int]bool
	regions  []vmath.AABB
	buckets  map[[2]int][]int // cell -> indexes into regions
}

// New builds a ready map from parsed level data.
func New(lvl *data.Level, textures TextureSource) *TileMap {
	m := &TileMap{Path: lvl.Path}
	m.build(lvl, textures)
	m.MarkReady()
	return m
}

func (m *TileMap) build(lvl *data.Level, textures TextureSource) {
	m.Name = lvl.Name
	m.TileSize = float64(lvl.TileSize)
	m.level = lvl
	m.solid = make(map[[2]int]bool)
	m.buckets = make(map[[2]int][]int)

	for _, ts := range lvl.Tilesets {
		tex := textures.Load(ts.Image)
		tex.Glyphs = ts.Glyphs
		m.tilesets = append(m.tilesets, tileset{firstGID: ts.FirstGID, texture: tex})
	}

	for _, ld := range lvl.Layers {
		layer := Layer{ID: ld.ID, Name: ld.Name, chunks: ld.Chunks}
		wholeLayer := ld.Properties.Bool(CollisionProperty)
		cells := make(map[[2]int]bool)
		for _, c := range ld.Chunks {
			for y := 0; y < c.Height; y++ {
				for x := 0; x < c.Width; x++ {
					gid := c.At(x, y)
					if gid == 0 {
						continue
					}
					if wholeLayer || m.tileSolid(gid) {
						cells[[2]int{c.X + x, c.Y + y}] = true
					}
				}
			}
		}
		if len(cells) > 0 {
			x0, y0, x1, y1 := bounds(cells)
			layer.Collidables = mergeSolid(x0, y0, x1-x0+1, y1-y0+1, func(cx, cy int) bool {
				return cells[[2]int{cx, cy}]
			}, m.TileSize)
		}
		for cell := range cells {
			m.solid[cell] = true
		}
		for _, box := range layer.Collidables {
			m.index(box)
		}
		m.layers = append(m.layers, layer)
	}
}

func (m *TileMap) tileSolid(gid int) bool {
	ts, local, ok := m.level.Resolve(gid)
	if !ok {
		return false
	}
	return ts.Tiles[local].Bool(CollisionProperty)
}

func (m *TileMap) index(box vmath.AABB) {
	i := len(m.regions)
	m.regions = append(m.regions, box)
	x0, y0 := m.cellOf(box.Left(), box.Top())
	x1, y1 := int(math.Ceil(box.Right()/m.TileSize))-1, int(math.Ceil(box.Bottom()/m.TileSize))-1
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			m.buckets[[2]int{x, y}] = append(m.buckets[[2]int{x, y}], i)
		}
	}
}

func (m *TileMap) cellOf(x, y float64) (int, int) {
	return int(math.Floor(x / m.TileSize)), int(math.Floor(y / m.TileSize))
}

func bounds(cells map[[2]int]bool) (x0, y0, x1, y1 int) {
	first := true
	for c := range cells {
		if first {
			x0, y0, x1, y1 = c[0], c[1], c[0], c[1]
			first = false
			continue
		}
		x0, y0 = min(x0, c[0]), min(y0, c[1])
		x1, y1 = max(x1, c[0]), max(y1, c[1])
	}
	return
}

// Layers returns the tile layers in draw order.
func (m *TileMap) Layers() []Layer {
	if !m.Ready() {
		return nil
	}
	return m.layers
}

// IsSolidAt reports whether any layer has a solid tile in cell (cx, cy).
func (m *TileMap) IsSolidAt(cx, cy int) bool {
	if !m.Ready() {
		return false
	}
	return m.solid[[2]int{cx, cy}]
}

// CellSize returns the tile size, or 0 before the map is ready.
func (m *TileMap) CellSize() float64 {
	if !m.Ready() {
		return 0
	}
	return m.TileSize
}

// CollidableRegionsNear returns merged solid rectangles whose cells fall in
// the range floor(left/size)..ceil(right/size) spanned by box, in layer
// order then region order.
func (m *TileMap) CollidableRegionsNear(box vmath.AABB) []vmath.AABB {
	if !m.Ready() || len(m.regions) == 0 {
		return nil
	}
	x0, y0 := m.cellOf(box.Left(), box.Top())
	x1, y1 := int(math.Ceil(box.Right()/m.TileSize)), int(math.Ceil(box.Bottom()/m.TileSize))

	seen := make(map[int]bool)
	var hits []int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			for _, i := range m.buckets[[2]int{x, y}] {
				if !seen[i] {
					seen[i] = true
					hits = append(hits, i)
				}
			}
		}
	}
	slices.Sort(hits)
	out := make([]vmath.AABB, len(hits))
	for i, h := range hits {
		out[i] = m.regions[h]
	}
	return out
}

func (m *TileMap) texture(gid int) (*render.Texture, int) {
	var best *tileset
	for i := range m.tilesets {
		ts := &m.tilesets[i]
		if ts.firstGID <= gid && (best == nil || ts.firstGID > best.firstGID) {
			best = ts
		}
	}
	if best == nil {
		return nil, 0
	}
	return best.texture, gid - best.firstGID
}

// Draw submits every tile, shifted by offset.
func (m *TileMap) Draw(sink render.Sink, offset vmath.Vec2) {
	if !m.Ready() {
		return
	}
	half := vmath.V2(m.TileSize/2, m.TileSize/2)
	for li, layer := range m.layers {
		for _, c := range layer.chunks {
			for y := 0; y < c.Height; y++ {
				for x := 0; x < c.Width; x++ {
					gid := c.At(x, y)
					if gid == 0 {
						continue
					}
					tex, local := m.texture(gid)
					if tex == nil {
						continue
					}
					pos := vmath.V2(
						offset.X()+(float64(c.X+x)+0.5)*m.TileSize,
						offset.Y()+(float64(c.Y+y)+0.5)*m.TileSize,
					)
					sink.SubmitTile(tex, BaseLayer+li, local, pos, 0, half)
				}
			}
		}
	}
}

// Maps loads levels in the background, one object per path.
type Maps struct {
	cache    *asset.Cache[TileMap]
	textures TextureSource
	log      *zap.Logger
}

func NewMaps(textures TextureSource, log *zap.Logger) *Maps {
	ms := &Maps{textures: textures, log: log}
	ms.cache = asset.NewCache(ms.start)
	return ms
}

func (ms *Maps) Load(path string) *TileMap {
	return ms.cache.Load(path)
}

func (ms *Maps) start(path string) *TileMap {
	m := &TileMap{Path: path}
	go func() {
		lvl, err := data.LoadLevel(path)
		if err != nil {
			ms.log.Error("level load failed", zap.String("path", path), zap.Error(err))
			m.Fail(err)
			return
		}
		m.build(lvl, ms.textures)
		m.MarkReady()
		ms.log.Info("level loaded",
			zap.String("path", path),
			zap.String("name", m.Name),
			zap.Int("layers", len(m.layers)),
			zap.Int("collidables", len(m.regions)))
	}()
	return m
}
