package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// MarkedForRemoval is a zero-size tag; its presence schedules the entity for
// destruction at the next Maintain. The tag's storage is always registered.
type MarkedForRemoval struct{}

// World exclusively owns the entity registry, every component storage, and
// the resource context. Systems borrow storages for the duration of one
// dispatch and must not retain pointers across ticks.
type World struct {
	registry Registry
	stores   map[reflect.Type]store
	labels   map[string]reflect.Type
	removals *Storage[MarkedForRemoval]
	ctx      Context
}

// NewWorld creates an empty world with the removal tag pre-registered and a
// zeroed resource context.
func NewWorld() *World {
	w := &World{
		stores: make(map[reflect.Type]store),
		labels: make(map[string]reflect.Type),
	}
	w.removals = RegisterComponent[MarkedForRemoval](w, "marked_for_removal")
	w.ctx = NewContext()
	return w
}

// Key returns the registration key for a component type. Access sets and
// storage lookups are keyed by this.
func Key[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterComponent adds a storage for component type T under the given
// label. Registering the same type or label twice is a construction-time
// bug and panics.
func RegisterComponent[T any](w *World, label string) *Storage[T] {
	key := Key[T]()
	if _, dup := w.stores[key]; dup {
		panic(fmt.Sprintf("ecs: component %s already registered", key))
	}
	if _, dup := w.labels[label]; dup {
		panic(fmt.Sprintf("ecs: component label %q already registered", label))
	}
	s := &Storage[T]{label: label}
	w.stores[key] = s
	w.labels[label] = key
	return s
}

// StorageOf returns the storage for component type T, or an error when the
// type was never registered. Systems resolve their storages at construction
// so a missing registration surfaces before the first dispatch.
func StorageOf[T any](w *World) (*Storage[T], error) {
	key := Key[T]()
	s, ok := w.stores[key]
	if !ok {
		return nil, fmt.Errorf("ecs: component %s not registered", key)
	}
	return s.(*Storage[T]), nil
}

// MustStorage is StorageOf that panics on a missing registration.
func MustStorage[T any](w *World) *Storage[T] {
	s, err := StorageOf[T](w)
	if err != nil {
		panic(err)
	}
	return s
}

// registered reports whether a component key has a storage.
func (w *World) registered(key reflect.Type) bool {
	_, ok := w.stores[key]
	return ok
}

// Create allocates a fresh entity.
func (w *World) Create() Entity {
	return w.registry.Create()
}

// Destroy marks an entity dead; its components remain queryable until the
// next Maintain. Stale handles are ignored.
func (w *World) Destroy(e Entity) {
	w.registry.Destroy(e)
}

// Alive reports generation-checked liveness.
func (w *World) Alive(e Entity) bool {
	return w.registry.Alive(e)
}

// MarkRemove tags an entity for destruction at the next Maintain.
func (w *World) MarkRemove(e Entity) {
	w.removals.Insert(e, MarkedForRemoval{})
}

// Registry exposes the entity registry for creation-order iteration.
func (w *World) Registry() *Registry {
	return &w.registry
}

// Context returns the world's resource context. The fixed-timestep driver
// writes the clock, the platform writes the input snapshot, systems mutate
// what they declared.
func (w *World) Context() *Context {
	return &w.ctx
}

// Maintain is the synchronization point between dispatches: entities tagged
// MarkedForRemoval are destroyed, then every storage entry belonging to a
// dead entity is scrubbed and the dead slots become reusable. It must never
// be called mid-dispatch.
func (w *World) Maintain() {
	w.removals.EachDense(func(e Entity, _ *MarkedForRemoval) bool {
		w.registry.Destroy(e)
		return true
	})
	collected := w.registry.collect()
	if len(collected) == 0 {
		return
	}
	// Deterministic scrub order for the type-erased store walk.
	keys := make([]string, 0, len(w.labels))
	for label := range w.labels {
		keys = append(keys, label)
	}
	sort.Strings(keys)
	for _, e := range collected {
		for _, label := range keys {
			w.stores[w.labels[label]].discard(e.ID)
		}
	}
}

// Join2 visits every entity holding both components, in registry creation
// order. The order is stable within a dispatch, which makes collision pair
// testing and tests reproducible.
func Join2[A, B any](w *World, a *Storage[A], b *Storage[B], fn func(Entity, *A, *B) bool) {
	w.registry.Each(func(e Entity) bool {
		av, ok := a.Get(e)
		if !ok {
			return true
		}
		bv, ok := b.Get(e)
		if !ok {
			return true
		}
		return fn(e, av, bv)
	})
}

// Join3 visits every entity holding all three components, in registry
// creation order.
func Join3[A, B, C any](w *World, a *Storage[A], b *Storage[B], c *Storage[C], fn func(Entity, *A, *B, *C) bool) {
	Join2(w, a, b, func(e Entity, av *A, bv *B) bool {
		cv, ok := c.Get(e)
		if !ok {
			return true
		}
		return fn(e, av, bv, cv)
	})
}

// Join4 visits every entity holding all four components, in registry
// creation order.
func Join4[A, B, C, D any](w *World, a *Storage[A], b *Storage[B], c *Storage[C], d *Storage[D], fn func(Entity, *A, *B, *C, *D) bool) {
	Join3(w, a, b, c, func(e Entity, av *A, bv *B, cv *C) bool {
		dv, ok := d.Get(e)
		if !ok {
			return true
		}
		return fn(e, av, bv, cv, dv)
	})
}
