package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TilesetTileDef carries custom properties for one tile of a tileset.
type TilesetTileDef struct {
	Properties []PropertyDef `yaml:"properties"`
}

// TilesetDef describes an atlas image. Tile ids in layer data are global:
// FirstGID is the id of this tileset's tile 0, and 0 means "no tile".
type TilesetDef struct {
	Name     string                 `yaml:"name"`
	FirstGID int                    `yaml:"firstgid"`
	Image    string                 `yaml:"image"`
	TileSize int                    `yaml:"tile_size"`
	Glyphs   map[int]string         `yaml:"glyphs"`
	Tiles    map[int]TilesetTileDef `yaml:"tiles"`
}

// ChunkDef is a rectangular block of tiles positioned in cell coordinates.
// Tile ids come either inline or from a CSV file relative to the level file.
type ChunkDef struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	CSV    string `yaml:"csv"`
	Tiles  []int  `yaml:"tiles"`
}

type LayerDef struct {
	ID         int           `yaml:"id"`
	Name       string        `yaml:"name"`
	Properties []PropertyDef `yaml:"properties"`
	Chunks     []ChunkDef    `yaml:"chunks"`
}

type levelFile struct {
	Name     string       `yaml:"name"`
	TileSize int          `yaml:"tile_size"`
	Tilesets []TilesetDef `yaml:"tilesets"`
	Layers   []LayerDef   `yaml:"layers"`
}

// Tileset is a validated tileset with parsed tile properties.
type Tileset struct {
	Name     string
	FirstGID int
	Image    string // resolved against the level directory
	Glyphs   map[int]rune
	Tiles    map[int]Properties
}

// Chunk holds resolved global tile ids, row-major.
type Chunk struct {
	X, Y          int
	Width, Height int
	Tiles         []int
}

func (c Chunk) At(x, y int) int { return c.Tiles[x+y*c.Width] }

type Layer struct {
	ID         int
	Name       string
	Properties Properties
	Chunks     []Chunk
}

// Level is validated level authoring data.
type Level struct {
	Path     string
	Name     string
	TileSize int
	Tilesets []Tileset
	Layers   []Layer
}

// Resolve maps a global tile id to its tileset and local id.
func (l *Level) Resolve(gid int) (*Tileset, int, bool) {
	if gid <= 0 {
		return nil, 0, false
	}
	var best *Tileset
	for i := range l.Tilesets {
		ts := &l.Tilesets[i]
		if ts.FirstGID <= gid && (best == nil || ts.FirstGID > best.FirstGID) {
			best = ts
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, gid - best.FirstGID, true
}

// LoadLevel reads a level YAML file and any CSV chunk files it references.
func LoadLevel(path string) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	lvl, err := ParseLevel(raw, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse level %s: %w", path, err)
	}
	lvl.Path = path
	return lvl, nil
}

// ParseLevel validates level YAML. CSV and image paths resolve against dir.
func ParseLevel(raw []byte, dir string) (*Level, error) {
	var file levelFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	if file.TileSize <= 0 {
		return nil, fmt.Errorf("tile_size: %w", ErrMissingField)
	}
	if len(file.Layers) == 0 {
		return nil, fmt.Errorf("layers: %w", ErrMissingField)
	}

	lvl := &Level{Name: file.Name, TileSize: file.TileSize}
	for i, def := range file.Tilesets {
		ts, err := parseTileset(fmt.Sprintf("tilesets[%d]", i), def, dir)
		if err != nil {
			return nil, err
		}
		lvl.Tilesets = append(lvl.Tilesets, ts)
	}
	for i, def := range file.Layers {
		layer, err := parseLayer(fmt.Sprintf("layers[%d]", i), def, dir)
		if err != nil {
			return nil, err
		}
		lvl.Layers = append(lvl.Layers, layer)
	}
	return lvl, nil
}

func parseTileset(field string, def TilesetDef, dir string) (Tileset, error) {
	if def.Image == "" {
		return Tileset{}, fmt.Errorf("%s.image: %w", field, ErrMissingField)
	}
	if def.FirstGID <= 0 {
		return Tileset{}, fmt.Errorf("%s.firstgid: %w", field, ErrMissingField)
	}
	ts := Tileset{
		Name:     def.Name,
		FirstGID: def.FirstGID,
		Image:    resolvePath(dir, def.Image),
		Glyphs:   make(map[int]rune, len(def.Glyphs)),
		Tiles:    make(map[int]Properties, len(def.Tiles)),
	}
	for id, g := range def.Glyphs {
		r := []rune(g)
		if len(r) != 1 {
			return Tileset{}, fmt.Errorf("%s.glyphs[%d]: %q: %w", field, id, g, ErrInvalidValue)
		}
		ts.Glyphs[id] = r[0]
	}
	for id, tile := range def.Tiles {
		props, err := ParseProperties(field+".tiles["+strconv.Itoa(id)+"]", tile.Properties)
		if err != nil {
			return Tileset{}, err
		}
		ts.Tiles[id] = props
	}
	return ts, nil
}

func parseLayer(field string, def LayerDef, dir string) (Layer, error) {
	if def.Name == "" {
		return Layer{}, fmt.Errorf("%s.name: %w", field, ErrMissingField)
	}
	props, err := ParseProperties(field, def.Properties)
	if err != nil {
		return Layer{}, err
	}
	layer := Layer{ID: def.ID, Name: def.Name, Properties: props}
	for i, c := range def.Chunks {
		cf := fmt.Sprintf("%s.chunks[%d]", field, i)
		if c.Width <= 0 {
			return Layer{}, fmt.Errorf("%s.width: %w", cf, ErrMissingField)
		}
		if c.Height <= 0 {
			return Layer{}, fmt.Errorf("%s.height: %w", cf, ErrMissingField)
		}
		var tiles []int
		switch {
		case c.CSV != "":
			tiles, err = loadTileFile(resolvePath(dir, c.CSV), c.Width, c.Height)
			if err != nil {
				return Layer{}, fmt.Errorf("%s.csv: %w", cf, err)
			}
		case c.Tiles != nil:
			if len(c.Tiles) != c.Width*c.Height {
				return Layer{}, fmt.Errorf("%s.tiles: have %d, want %d: %w", cf, len(c.Tiles), c.Width*c.Height, ErrInvalidValue)
			}
			tiles = c.Tiles
		default:
			return Layer{}, fmt.Errorf("%s.tiles: %w", cf, ErrMissingField)
		}
		layer.Chunks = append(layer.Chunks, Chunk{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Tiles: tiles})
	}
	return layer, nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}
