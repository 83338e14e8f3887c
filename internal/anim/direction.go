package anim

import "github.com/EverCrawl/client/internal/vmath"

// Direction is a bit mask of screen directions; y grows downwards.
type Direction uint8

const (
	Up    Direction = 1 << 1
	Down  Direction = 1 << 2
	Left  Direction = 1 << 3
	Right Direction = 1 << 4
)

// DirectionOf derives the direction mask from a velocity's signs.
func DirectionOf(v vmath.Vec2) Direction {
	var d Direction
	switch {
	case v.Y() < 0:
		d |= Up
	case v.Y() > 0:
		d |= Down
	}
	switch {
	case v.X() < 0:
		d |= Left
	case v.X() > 0:
		d |= Right
	}
	return d
}

func (d Direction) String() string {
	var s string
	if d&Up != 0 {
		s += "Up"
	} else if d&Down != 0 {
		s += "Down"
	}
	if d&Left != 0 {
		s += "Left"
	} else if d&Right != 0 {
		s += "Right"
	}
	return s
}

// DeriveState names the state for a direction: Walk_<dir> while moving,
// otherwise Idle_<facing>. It returns the facing to remember for the next
// call; a zero facing means Down.
func DeriveState(dir Direction, moving bool, facing Direction) (State, Direction) {
	if moving && dir != 0 {
		facing = dir
	}
	if facing == 0 {
		facing = Down
	}
	if moving {
		return State("Walk_" + facing.String()), facing
	}
	return State("Idle_" + facing.String()), facing
}
