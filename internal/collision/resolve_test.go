package collision

import (
	"testing"

	"github.com/EverCrawl/client/internal/vmath"
	"github.com/stretchr/testify/assert"
)

type regions []vmath.AABB

func (r regions) CollidableRegionsNear(vmath.AABB) []vmath.AABB { return r }

type cells map[[2]int]bool

func (c cells) IsSolidAt(cx, cy int) bool { return c[[2]int{cx, cy}] }

func overlapX(a, b vmath.AABB) float64 {
	return min(a.Right(), b.Right()) - max(a.Left(), b.Left())
}

func overlapY(a, b vmath.AABB) float64 {
	return min(a.Bottom(), b.Bottom()) - max(a.Top(), b.Top())
}

func TestResolveNonPenetration(t *testing.T) {
	box := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(8, 8))
	tile := vmath.NewAABB(vmath.V2(20, 0), vmath.V2(8, 8))
	candidate := box.Center.Add(vmath.V2(5, 0))

	pos, hit := Resolve(box, candidate, regions{tile})

	assert.True(t, hit)
	after := box.MoveTo(pos)
	assert.LessOrEqual(t, overlapX(after, tile), 0.0)
	assert.Equal(t, candidate.Y(), pos.Y())
}

func TestResolveSmallestAxis(t *testing.T) {
	region := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(10, 10))
	box := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(5, 5))
	// overlap 3 on X, 7 on Y
	candidate := vmath.V2(12, 8)

	pos, hit := Resolve(box, candidate, regions{region})

	assert.True(t, hit)
	assert.Equal(t, vmath.V2(15, 8), pos)
	assert.Equal(t, candidate.Y(), pos.Y())
	assert.Equal(t, 3.0, overlapX(box.MoveTo(candidate), region))
	assert.Equal(t, 7.0, overlapY(box.MoveTo(candidate), region))
}

func TestResolveTieResolvesOnX(t *testing.T) {
	region := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(8, 8))
	box := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(8, 8))

	pos, hit := Resolve(box, vmath.V2(-12, 12), regions{region})
	assert.True(t, hit)
	assert.Equal(t, vmath.V2(-16, 12), pos)
}

func TestResolveTouchingIsNotCollision(t *testing.T) {
	region := vmath.NewAABB(vmath.V2(16, 0), vmath.V2(8, 8))
	box := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(8, 8))

	pos, hit := Resolve(box, vmath.V2(0, 0), regions{region})
	assert.False(t, hit)
	assert.Equal(t, vmath.V2(0, 0), pos)
}

func TestResolveSequentialRegions(t *testing.T) {
	floor := vmath.NewAABB(vmath.V2(0, 20), vmath.V2(32, 8))
	wall := vmath.NewAABB(vmath.V2(20, 0), vmath.V2(8, 32))
	box := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(8, 8))

	pos, hit := Resolve(box, vmath.V2(6, 6), regions{floor, wall})
	assert.True(t, hit)
	assert.Equal(t, vmath.V2(4, 4), pos)
}

func TestResolveEndToEndBoundary(t *testing.T) {
	tile := vmath.NewAABB(vmath.V2(16, 0), vmath.V2(16, 16))
	box := vmath.NewAABB(vmath.V2(0, 0), vmath.V2(8, 8))

	pos, hit := Resolve(box, vmath.V2(2, 0), regions{tile})
	assert.True(t, hit)
	assert.Equal(t, vmath.V2(-8, 0), pos)
}

func TestGridGeometry(t *testing.T) {
	g := Grid{Source: cells{{1, 0}: true, {5, 5}: true}, Cell: 16}

	near := g.CollidableRegionsNear(vmath.NewAABB(vmath.V2(8, 8), vmath.V2(8, 8)))
	assert.Equal(t, []vmath.AABB{vmath.NewAABB(vmath.V2(24, 8), vmath.V2(8, 8))}, near)

	pos, hit := Resolve(vmath.NewAABB(vmath.V2(8, 8), vmath.V2(8, 8)), vmath.V2(13, 8), g)
	assert.True(t, hit)
	assert.Equal(t, vmath.V2(8, 8), pos)

	assert.Nil(t, Grid{Source: cells{}, Cell: 0}.CollidableRegionsNear(vmath.AABB{}))
}
