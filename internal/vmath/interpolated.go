package vmath

// Interpolated keeps the previous and current value of some simulated state so
// rendering can blend between fixed simulation steps.
type Interpolated[T any] struct {
	previous T
	current  T
	lerp     func(a, b T, weight float64) T
}

func NewInterpolated[T any](initial T, lerp func(a, b T, weight float64) T) Interpolated[T] {
	return Interpolated[T]{previous: initial, current: initial, lerp: lerp}
}

// Update shifts current into previous and stores v as current.
func (s *Interpolated[T]) Update(v T) {
	s.previous = s.current
	s.current = v
}

// Get returns lerp(previous, current, weight).
func (s *Interpolated[T]) Get(weight float64) T {
	return s.lerp(s.previous, s.current, weight)
}

func (s *Interpolated[T]) Current() T  { return s.current }
func (s *Interpolated[T]) Previous() T { return s.previous }

// Reset sets both previous and current to v, e.g. after a teleport.
func (s *Interpolated[T]) Reset(v T) {
	s.previous = v
	s.current = v
}
