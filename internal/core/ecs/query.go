package ecs

import "iter"

// Row2 is one element of a View2.
type Row2[A, B any] struct {
	A *A
	B *B
}

// Row3 is one element of a View3.
type Row3[A, B, C any] struct {
	A *A
	B *B
	C *C
}

// Row4 is one element of a View4.
type Row4[A, B, C, D any] struct {
	A *A
	B *B
	C *C
	D *D
}

// View1 yields every alive entity that has an A, in insertion order.
//
// The sequence is lazy. Adding or removing components or entities while it is
// being ranged over is not supported; use MarkForDestruction instead.
func View1[A any](r *Registry) iter.Seq2[Entity, *A] {
	return func(yield func(Entity, *A) bool) {
		sa := lookup[A](r)
		if sa == nil {
			return
		}
		for _, e := range r.order {
			a, ok := sa.Get(e)
			if !ok {
				continue
			}
			if !yield(e, a) {
				return
			}
		}
	}
}

// View2 yields every alive entity that has both an A and a B.
func View2[A, B any](r *Registry) iter.Seq2[Entity, Row2[A, B]] {
	return func(yield func(Entity, Row2[A, B]) bool) {
		sa, sb := lookup[A](r), lookup[B](r)
		if sa == nil || sb == nil {
			return
		}
		for _, e := range r.order {
			a, ok := sa.Get(e)
			if !ok {
				continue
			}
			b, ok := sb.Get(e)
			if !ok {
				continue
			}
			if !yield(e, Row2[A, B]{A: a, B: b}) {
				return
			}
		}
	}
}

// View3 yields every alive entity that has an A, a B and a C.
func View3[A, B, C any](r *Registry) iter.Seq2[Entity, Row3[A, B, C]] {
	return func(yield func(Entity, Row3[A, B, C]) bool) {
		sa, sb, sc := lookup[A](r), lookup[B](r), lookup[C](r)
		if sa == nil || sb == nil || sc == nil {
			return
		}
		for _, e := range r.order {
			a, ok := sa.Get(e)
			if !ok {
				continue
			}
			b, ok := sb.Get(e)
			if !ok {
				continue
			}
			c, ok := sc.Get(e)
			if !ok {
				continue
			}
			if !yield(e, Row3[A, B, C]{A: a, B: b, C: c}) {
				return
			}
		}
	}
}

// View4 yields every alive entity that has an A, a B, a C and a D.
func View4[A, B, C, D any](r *Registry) iter.Seq2[Entity, Row4[A, B, C, D]] {
	return func(yield func(Entity, Row4[A, B, C, D]) bool) {
		sd := lookup[D](r)
		if sd == nil {
			return
		}
		for e, row := range View3[A, B, C](r) {
			d, ok := sd.Get(e)
			if !ok {
				continue
			}
			if !yield(e, Row4[A, B, C, D]{A: row.A, B: row.B, C: row.C, D: d}) {
				return
			}
		}
	}
}

// Each2 calls fn for every entity that has both A and B, in insertion order.
func Each2[A, B any](r *Registry, fn func(Entity, *A, *B)) {
	for e, row := range View2[A, B](r) {
		fn(e, row.A, row.B)
	}
}

// Each3 calls fn for every entity that has A, B and C, in insertion order.
func Each3[A, B, C any](r *Registry, fn func(Entity, *A, *B, *C)) {
	for e, row := range View3[A, B, C](r) {
		fn(e, row.A, row.B, row.C)
	}
}
