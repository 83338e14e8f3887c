package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyboardPressRelease(t *testing.T) {
	k := NewKeyboard()
	assert.False(t, k.IsPressed(KeyW))

	k.Press(KeyW)
	k.Press(KeyShiftLeft)
	assert.True(t, k.IsPressed(KeyW))

	k.Release(KeyW)
	assert.False(t, k.IsPressed(KeyW))
	assert.True(t, k.IsPressed(KeyShiftLeft))

	k.Reset()
	assert.False(t, k.IsPressed(KeyShiftLeft))
}

func TestKeyboardHoldTimeout(t *testing.T) {
	now := time.Unix(0, 0)
	k := NewKeyboard(WithHoldTimeout(100*time.Millisecond), WithClock(func() time.Time { return now }))

	k.Press(KeyD)
	now = now.Add(80 * time.Millisecond)
	assert.True(t, k.IsPressed(KeyD))

	k.Press(KeyD)
	now = now.Add(80 * time.Millisecond)
	assert.True(t, k.IsPressed(KeyD), "repeat press extends the hold")

	now = now.Add(30 * time.Millisecond)
	assert.False(t, k.IsPressed(KeyD))
}
