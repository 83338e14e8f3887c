package ecs

import "reflect"

// Finalizer is implemented by components that hold resources which must be
// released when the owning entity is destroyed.
type Finalizer interface {
	Free()
}

// Component is a typed component value bound for emplacement, built with With.
type Component interface {
	emplaceInto(r *Registry, e Entity)
}

type bound[T any] struct {
	c *T
}

func (b bound[T]) emplaceInto(r *Registry, e Entity) {
	storeFor[T](r).Set(e, b.c)
}

// With wraps a component pointer so it can be passed to Create or Insert.
func With[T any](c *T) Component {
	if c == nil {
		panic("ecs: With called with nil " + typeName[T]())
	}
	return bound[T]{c: c}
}

// storage is the type-erased view of a Store used by Destroy.
type storage interface {
	detach(id Entity) (any, bool)
	Has(id Entity) bool
	Name() string
}

// Store is a sparse set of components of one type: a dense array of values
// with an entity→index indirection. Removal swaps the last element into the hole.
type Store[T any] struct {
	name     string
	index    map[Entity]int
	entities []Entity
	data     []*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		name:     typeName[T](),
		index:    make(map[Entity]int, 64),
		entities: make([]Entity, 0, 64),
		data:     make([]*T, 0, 64),
	}
}

// Set stores c for id, silently replacing any previous instance.
func (s *Store[T]) Set(id Entity, c *T) {
	if i, ok := s.index[id]; ok {
		s.data[i] = c
		return
	}
	s.index[id] = len(s.data)
	s.entities = append(s.entities, id)
	s.data = append(s.data, c)
}

func (s *Store[T]) Get(id Entity) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.data[i], true
}

func (s *Store[T]) Has(id Entity) bool {
	_, ok := s.index[id]
	return ok
}

// Remove detaches and returns the component for id.
func (s *Store[T]) Remove(id Entity) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	c := s.data[i]
	last := len(s.data) - 1
	if i != last {
		moved := s.entities[last]
		s.entities[i] = moved
		s.data[i] = s.data[last]
		s.index[moved] = i
	}
	s.data[last] = nil
	s.entities = s.entities[:last]
	s.data = s.data[:last]
	delete(s.index, id)
	return c, true
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Name() string { return s.name }

// Each visits every stored component in dense order, which is not creation order.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	for i, c := range s.data {
		fn(s.entities[i], c)
	}
}

func (s *Store[T]) detach(id Entity) (any, bool) {
	c, ok := s.Remove(id)
	if !ok {
		return nil, false
	}
	return c, true
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
