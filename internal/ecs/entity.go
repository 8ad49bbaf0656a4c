// Package ecs provides the entity-component-system core that the arcade
// games are built on. Entities are generational handles, components live in
// per-type sparse/dense storages owned by a World, and behavior runs in
// systems dispatched by a Pipeline once per fixed simulation tick.
//
// Entity destruction is deferred: Destroy marks a handle dead immediately,
// but component storages are only scrubbed at World.Maintain, the single
// stop-the-world point between dispatches. In-flight iteration therefore
// never observes a storage mutation.
package ecs

// Entity is an opaque generational handle. The zero value is "no entity" and
// is never returned by Create.
type Entity struct {
	ID      uint32 // Slot index, reused after the slot's version is bumped
	Version uint32 // Guards against stale handles to recycled slots
}

// NoEntity is the invalid zero handle.
var NoEntity = Entity{}

// Registry allocates and recycles entity handles and tracks liveness.
// It is owned by a World; games interact with it through World methods.
type Registry struct {
	versions []uint32 // current version per slot, starts at 1
	alive    []bool
	free     []uint32 // slots available for reuse
	order    []uint32 // slots in creation order, pending-dead included until collect
	dead     []uint32 // slots destroyed since the last collect
}

// Create allocates a fresh entity, reusing a freed slot (with its already
// bumped version) when one is available. O(1) amortized, never fails.
func (r *Registry) Create() Entity {
	var id uint32
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
		r.alive[id] = true
	} else {
		id = uint32(len(r.versions))
		r.versions = append(r.versions, 1)
		r.alive = append(r.alive, true)
	}
	r.order = append(r.order, id)
	return Entity{ID: id, Version: r.versions[id]}
}

// Destroy marks a live entity dead. The handle stops reporting Alive
// immediately, but its components stay queryable until the next collect.
// Destroying a stale or unknown handle is a no-op so late-arriving deletions
// are safe.
func (r *Registry) Destroy(e Entity) {
	if !r.Alive(e) {
		return
	}
	r.alive[e.ID] = false
	r.dead = append(r.dead, e.ID)
}

// Alive reports whether the handle refers to a live entity. A recycled slot
// with a stale version reports false.
func (r *Registry) Alive(e Entity) bool {
	if int(e.ID) >= len(r.versions) {
		return false
	}
	return r.alive[e.ID] && r.versions[e.ID] == e.Version
}

// handle returns the current handle for a slot, dead or alive.
func (r *Registry) handle(id uint32) Entity {
	return Entity{ID: id, Version: r.versions[id]}
}

// Each visits every entity in creation order, including entities destroyed
// since the last collect (they are still queryable). Returning false stops
// the walk. The order is stable between collects, which keeps joins
// deterministic within a dispatch.
func (r *Registry) Each(fn func(Entity) bool) {
	for _, id := range r.order {
		if !fn(r.handle(id)) {
			return
		}
	}
}

// Len returns the number of entities in the creation-order walk, dead
// entities awaiting collection included.
func (r *Registry) Len() int {
	return len(r.order)
}

// collect frees all dead slots: their versions are bumped so stale handles
// can never alias a recycled slot, and they leave the creation-order walk.
// Returns the handles (at their pre-bump versions) so the World can scrub
// storages. Called only from World.Maintain.
func (r *Registry) collect() []Entity {
	if len(r.dead) == 0 {
		return nil
	}
	collected := make([]Entity, 0, len(r.dead))
	isDead := make(map[uint32]bool, len(r.dead))
	for _, id := range r.dead {
		collected = append(collected, r.handle(id))
		isDead[id] = true
		r.versions[id]++
		r.free = append(r.free, id)
	}
	kept := r.order[:0]
	for _, id := range r.order {
		if !isDead[id] {
			kept = append(kept, id)
		}
	}
	r.order = kept
	r.dead = r.dead[:0]
	return collected
}
