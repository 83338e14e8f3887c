// Package term draws render commands on a character-cell terminal and turns
// terminal key events into keyboard state.
package term

import (
	"image/color"
	"math"

	"github.com/EverCrawl/client/internal/render"
	"github.com/EverCrawl/client/internal/vmath"
	"github.com/gdamore/tcell/v2"
)

const (
	lineGlyph  = '·'
	pointGlyph = '+'
)

// Backend maps world pixels to terminal cells, with the world origin at the
// center of the screen. Later commands overwrite earlier ones in a cell.
type Backend struct {
	screen tcell.Screen
	cell   float64 // world pixels per terminal cell
}

func NewBackend(screen tcell.Screen, cellSize float64) *Backend {
	if cellSize <= 0 {
		cellSize = 16
	}
	return &Backend{screen: screen, cell: cellSize}
}

func (b *Backend) Draw(cmds []render.Command) error {
	b.screen.Clear()
	for _, cmd := range cmds {
		switch cmd.Kind {
		case render.KindSprite:
			b.put(cmd.Pos, cmd.Texture.Glyph, style(cmd.Texture.Tint).Bold(true))
		case render.KindTile:
			b.put(cmd.Pos, cmd.Texture.TileGlyph(cmd.Tile), style(cmd.Texture.Tint).Dim(true))
		case render.KindLine:
			b.line(cmd.Pos, cmd.To, style(cmd.Color))
		case render.KindPoint:
			b.put(cmd.Pos, pointGlyph, style(cmd.Color))
		}
	}
	b.screen.Show()
	return nil
}

// Cell returns the terminal cell that world position pos falls in.
func (b *Backend) Cell(pos vmath.Vec2) (int, int) {
	w, h := b.screen.Size()
	x := w/2 + int(math.Floor(pos.X()/b.cell))
	y := h/2 + int(math.Floor(pos.Y()/b.cell))
	return x, y
}

func (b *Backend) put(pos vmath.Vec2, r rune, st tcell.Style) {
	x, y := b.Cell(pos)
	b.setCell(x, y, r, st)
}

func (b *Backend) setCell(x, y int, r rune, st tcell.Style) {
	w, h := b.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	b.screen.SetContent(x, y, r, nil, st)
}

// line rasterizes p0→p1 over cells with Bresenham's algorithm.
func (b *Backend) line(p0, p1 vmath.Vec2, st tcell.Style) {
	x0, y0 := b.Cell(p0)
	x1, y1 := b.Cell(p1)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		b.setCell(x0, y0, lineGlyph, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func style(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
