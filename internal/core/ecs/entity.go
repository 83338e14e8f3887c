package ecs

import "strconv"

// Entity is an opaque identifier handed out by a Registry from a monotonically
// increasing sequence starting at 0. Identifiers are never reused within the
// lifetime of the Registry that created them.
type Entity uint32

// Null never refers to a live entity.
const Null Entity = ^Entity(0)

func (e Entity) String() string {
	if e == Null {
		return "null"
	}
	return strconv.FormatUint(uint64(e), 10)
}
