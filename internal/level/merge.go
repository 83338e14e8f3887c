package level

import "github.com/EverCrawl/client/internal/vmath"

type run struct {
	x, y, length int
}

// mergeSolid compresses the solid cells of a w×h block whose top-left cell
// is (x0, y0) into rectangles. Contiguous cells in a row form a run; a run
// joins the rectangle above it when that rectangle ends on the previous row
// with the same x and length. Rectangles come out in the order they were
// started, top to bottom then left to right.
func mergeSolid(x0, y0, w, h int, solid func(cx, cy int) bool, tileSize float64) []vmath.AABB {
	type group struct {
		x, y, length, rows int
	}
	var groups []group
	open := make(map[[2]int]int) // (x, length) -> group index ending on the previous row

	for y := y0; y < y0+h; y++ {
		var runs []run
		var cur *run
		for x := x0; x < x0+w; x++ {
			if solid(x, y) {
				if cur == nil {
					cur = &run{x: x, y: y}
				}
				cur.length++
				continue
			}
			if cur != nil {
				runs = append(runs, *cur)
				cur = nil
			}
		}
		if cur != nil {
			runs = append(runs, *cur)
		}

		next := make(map[[2]int]int, len(runs))
		for _, r := range runs {
			key := [2]int{r.x, r.length}
			if gi, ok := open[key]; ok {
				groups[gi].rows++
				next[key] = gi
				continue
			}
			groups = append(groups, group{x: r.x, y: r.y, length: r.length, rows: 1})
			next[key] = len(groups) - 1
		}
		open = next
	}

	out := make([]vmath.AABB, len(groups))
	for i, g := range groups {
		lo := vmath.V2(float64(g.x)*tileSize, float64(g.y)*tileSize)
		hi := vmath.V2(float64(g.x+g.length)*tileSize, float64(g.y+g.rows)*tileSize)
		out[i] = vmath.FromMinMax(lo, hi)
	}
	return out
}
