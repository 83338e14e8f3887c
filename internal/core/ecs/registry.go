package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var (
	// ErrDeadEntity is returned when operating on an entity that is not alive.
	ErrDeadEntity = errors.New("dead entity")
	// ErrDuplicateEntity is returned by Insert when the id is already alive.
	ErrDuplicateEntity = errors.New("duplicate entity")
)

// Registry owns entity identity and one component Store per component type.
// It is not safe for concurrent use; the game loop is its only user.
type Registry struct {
	sequence Entity
	alive    map[Entity]struct{}
	order    []Entity // alive entities in insertion order

	stores     map[reflect.Type]storage
	storeOrder []storage // creation order, used for deterministic finalization

	destroyQueue []Entity
}

func NewRegistry() *Registry {
	return &Registry{
		alive:        make(map[Entity]struct{}, 256),
		order:        make([]Entity, 0, 256),
		stores:       make(map[reflect.Type]storage, 16),
		storeOrder:   make([]storage, 0, 16),
		destroyQueue: make([]Entity, 0, 64),
	}
}

// Create allocates the next free sequence id and emplaces the given
// components. Ids taken by Insert are skipped.
func (r *Registry) Create(components ...Component) Entity {
	for r.Alive(r.sequence) {
		r.sequence++
	}
	e := r.sequence
	r.sequence++
	r.add(e, components)
	return e
}

// Insert is like Create with a caller-chosen id. It fails with
// ErrDuplicateEntity if e is already alive, and rejects Null. The sequence
// moves past e so Create never hands it out again.
func (r *Registry) Insert(e Entity, components ...Component) (Entity, error) {
	if e == Null {
		return Null, fmt.Errorf("insert entity %s: %w", e, ErrDeadEntity)
	}
	if r.Alive(e) {
		return Null, fmt.Errorf("insert entity %d: %w", e, ErrDuplicateEntity)
	}
	if e >= r.sequence {
		r.sequence = e + 1
	}
	r.add(e, components)
	return e, nil
}

func (r *Registry) add(e Entity, components []Component) {
	r.alive[e] = struct{}{}
	r.order = append(r.order, e)
	for _, c := range components {
		c.emplaceInto(r, e)
	}
}

// Alive reports whether e is present in the registry.
func (r *Registry) Alive(e Entity) bool {
	_, ok := r.alive[e]
	return ok
}

// Destroy removes e and all its components, calling Free on every component
// that implements Finalizer. Destroying an unknown entity fails with ErrDeadEntity.
func (r *Registry) Destroy(e Entity) error {
	if !r.Alive(e) {
		return fmt.Errorf("destroy entity %d: %w", e, ErrDeadEntity)
	}
	delete(r.alive, e)
	if i := slices.Index(r.order, e); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	for _, s := range r.storeOrder {
		c, ok := s.detach(e)
		if !ok {
			continue
		}
		if f, ok := c.(Finalizer); ok {
			f.Free()
		}
	}
	return nil
}

// MarkForDestruction queues an entity for end-of-tick cleanup so systems can
// request removal while a view is being iterated.
func (r *Registry) MarkForDestruction(e Entity) {
	r.destroyQueue = append(r.destroyQueue, e)
}

// FlushDestroyQueue destroys all queued entities. Entities queued more than
// once, or destroyed directly in the meantime, are skipped.
func (r *Registry) FlushDestroyQueue() int {
	n := 0
	for _, e := range r.destroyQueue {
		if !r.Alive(e) {
			continue
		}
		_ = r.Destroy(e)
		n++
	}
	r.destroyQueue = r.destroyQueue[:0]
	return n
}

// Size returns the number of alive entities.
func (r *Registry) Size() int {
	return len(r.alive)
}

// Entities returns a snapshot of all alive entities in insertion order.
func (r *Registry) Entities() []Entity {
	return slices.Clone(r.order)
}

// Emplace sets e's component of type T to c, overwriting any existing instance
// without finalizing it.
func Emplace[T any](r *Registry, e Entity, c *T) error {
	if !r.Alive(e) {
		return fmt.Errorf("emplace %s for entity %d: %w", typeName[T](), e, ErrDeadEntity)
	}
	if c == nil {
		return fmt.Errorf("emplace nil %s for entity %d", typeName[T](), e)
	}
	storeFor[T](r).Set(e, c)
	return nil
}

// Get returns e's component of type T, or nil if e has none.
func Get[T any](r *Registry, e Entity) (*T, error) {
	if !r.Alive(e) {
		return nil, fmt.Errorf("get %s for entity %d: %w", typeName[T](), e, ErrDeadEntity)
	}
	s := lookup[T](r)
	if s == nil {
		return nil, nil
	}
	c, _ := s.Get(e)
	return c, nil
}

// MustGet is Get for callers that treat a missing entity or component as a bug.
func MustGet[T any](r *Registry, e Entity) *T {
	c, err := Get[T](r, e)
	if err != nil {
		panic(err)
	}
	if c == nil {
		panic(fmt.Sprintf("ecs: entity %d has no %s", e, typeName[T]()))
	}
	return c
}

// Has reports whether e has a component of type T. It never fails.
func Has[T any](r *Registry, e Entity) bool {
	s := lookup[T](r)
	return s != nil && s.Has(e)
}

// Remove detaches and returns e's component of type T without finalizing it.
// Ownership passes to the caller.
func Remove[T any](r *Registry, e Entity) (*T, error) {
	if !r.Alive(e) {
		return nil, fmt.Errorf("remove %s for entity %d: %w", typeName[T](), e, ErrDeadEntity)
	}
	s := lookup[T](r)
	if s == nil {
		return nil, nil
	}
	c, _ := s.Remove(e)
	return c, nil
}

// Discard detaches e's component of type T and finalizes it.
func Discard[T any](r *Registry, e Entity) error {
	c, err := Remove[T](r, e)
	if err != nil {
		return err
	}
	if f, ok := any(c).(Finalizer); ok && c != nil {
		f.Free()
	}
	return nil
}

// StoreOf returns the store for T, creating it if needed.
func StoreOf[T any](r *Registry) *Store[T] {
	return storeFor[T](r)
}

func storeFor[T any](r *Registry) *Store[T] {
	if s := lookup[T](r); s != nil {
		return s
	}
	s := NewStore[T]()
	r.stores[reflect.TypeFor[T]()] = s
	r.storeOrder = append(r.storeOrder, s)
	return s
}

func lookup[T any](r *Registry) *Store[T] {
	s, ok := r.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return s.(*Store[T])
}
