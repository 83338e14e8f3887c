package component

import (
	"testing"

	"github.com/EverCrawl/client/internal/vmath"
	"github.com/stretchr/testify/assert"
)

func TestPositionInterpolation(t *testing.T) {
	p := NewPosition(vmath.V2(1, 2))
	p.Update(vmath.V2(5, -2))

	assert.Equal(t, vmath.V2(1, 2), p.Get(0))
	assert.Equal(t, vmath.V2(5, -2), p.Get(1))
	assert.Equal(t, vmath.LerpVec2(vmath.V2(1, 2), vmath.V2(5, -2), 0.5), p.Get(0.5))
	assert.Equal(t, vmath.V2(3, 0), p.Get(0.5))
}

func TestPositionCorrectKeepsPrevious(t *testing.T) {
	p := NewPosition(vmath.V2(0, 0))
	p.Update(vmath.V2(2, 0))
	p.Correct(vmath.V2(-8, 0))

	assert.Equal(t, vmath.V2(0, 0), p.Previous())
	assert.Equal(t, vmath.V2(-8, 0), p.Current())
}
