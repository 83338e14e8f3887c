// Package collision pushes moving boxes out of static level geometry.
package collision

import (
	"math"

	"github.com/EverCrawl/client/internal/vmath"
)

// Geometry answers which solid rectangles may touch a box. Results must be
// in a stable order; resolution is sequential and depends on it.
type Geometry interface {
	CollidableRegionsNear(box vmath.AABB) []vmath.AABB
}

// Resolve moves box to candidate and corrects it against every nearby solid
// region in turn, each time along the axis of least overlap. It returns the
// corrected center and whether any correction was applied. Fast boxes can
// tunnel through thin geometry; there is no swept test.
func Resolve(box vmath.AABB, candidate vmath.Vec2, geo Geometry) (vmath.Vec2, bool) {
	moved := box.MoveTo(candidate)
	corrected := false
	for _, region := range geo.CollidableRegionsNear(moved) {
		d, ok := vmath.Penetration(moved, region)
		if !ok {
			continue
		}
		moved.Center = moved.Center.Add(d)
		corrected = true
	}
	return moved.Center, corrected
}

// SolidSource reports solid cells of a uniform grid.
type SolidSource interface {
	IsSolidAt(cx, cy int) bool
}

// Grid exposes a cell grid as Geometry. Cell (cx, cy) covers
// [cx*Cell, (cx+1)*Cell) on both axes.
type Grid struct {
	Source SolidSource
	Cell   float64
}

func (g Grid) CollidableRegionsNear(box vmath.AABB) []vmath.AABB {
	if g.Cell <= 0 {
		return nil
	}
	x0, x1 := int(math.Floor(box.Left()/g.Cell)), int(math.Ceil(box.Right()/g.Cell))
	y0, y1 := int(math.Floor(box.Top()/g.Cell)), int(math.Ceil(box.Bottom()/g.Cell))

	var out []vmath.AABB
	half := vmath.V2(g.Cell/2, g.Cell/2)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if !g.Source.IsSolidAt(cx, cy) {
				continue
			}
			center := vmath.V2((float64(cx)+0.5)*g.Cell, (float64(cy)+0.5)*g.Cell)
			out = append(out, vmath.NewAABB(center, half))
		}
	}
	return out
}
