package ecs

// store is the type-erased view of a Storage that the World needs for
// registration bookkeeping and maintain-time scrubbing.
type store interface {
	Label() string
	contains(e Entity) bool
	// discard drops whatever value occupies the slot, regardless of version.
	discard(id uint32)
}

// Storage holds at most one component value of type T per entity, in a
// sparse/dense layout: a slot-indexed sparse array points into dense,
// parallel entity/value slices. Insert, Get and Remove are O(1).
type Storage[T any] struct {
	label  string
	sparse []int32 // slot id -> dense index, -1 when absent
	ents   []Entity
	vals   []T
}

// Label returns the name the component was registered under.
func (s *Storage[T]) Label() string {
	return s.label
}

// Insert attaches a component value to an entity, replacing any previous
// value. Inserting for a dead entity is allowed; the value is garbage
// collected at the next maintain. This tolerates systems that
// create-then-configure within the same tick.
func (s *Storage[T]) Insert(e Entity, v T) {
	s.grow(e.ID)
	if idx := s.sparse[e.ID]; idx >= 0 {
		// Slot occupied: same entity updates in place, a stale occupant
		// from a recycled slot is overwritten wholesale.
		s.ents[idx] = e
		s.vals[idx] = v
		return
	}
	s.ents = append(s.ents, e)
	s.vals = append(s.vals, v)
	s.sparse[e.ID] = int32(len(s.ents) - 1)
}

// Get returns a mutable pointer to the entity's component, or false when the
// entity has no component of this type. Absence is a normal outcome of ECS
// composition, not an error. The pointer must not be retained across ticks.
func (s *Storage[T]) Get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return &s.vals[idx], true
}

// Has reports whether the entity holds a component of this type.
func (s *Storage[T]) Has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

// Remove detaches the entity's component if present.
func (s *Storage[T]) Remove(e Entity) {
	idx, ok := s.index(e)
	if !ok {
		return
	}
	s.swapRemove(idx)
}

// Len returns the number of stored components.
func (s *Storage[T]) Len() int {
	return len(s.ents)
}

// EachDense visits stored values in dense order. The order is not the
// registry creation order; use the World join helpers when iteration order
// matters.
func (s *Storage[T]) EachDense(fn func(Entity, *T) bool) {
	for i := range s.ents {
		if !fn(s.ents[i], &s.vals[i]) {
			return
		}
	}
}

func (s *Storage[T]) index(e Entity) (int32, bool) {
	if int(e.ID) >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[e.ID]
	if idx < 0 || s.ents[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *Storage[T]) contains(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *Storage[T]) discard(id uint32) {
	if int(id) >= len(s.sparse) {
		return
	}
	idx := s.sparse[id]
	if idx < 0 {
		return
	}
	s.swapRemove(idx)
}

func (s *Storage[T]) swapRemove(idx int32) {
	last := int32(len(s.ents) - 1)
	removedSlot := s.ents[idx].ID
	if idx != last {
		s.ents[idx] = s.ents[last]
		s.vals[idx] = s.vals[last]
		s.sparse[s.ents[idx].ID] = idx
	}
	var zero T
	s.vals[last] = zero
	s.ents = s.ents[:last]
	s.vals = s.vals[:last]
	s.sparse[removedSlot] = -1
}

func (s *Storage[T]) grow(id uint32) {
	for int(id) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
}
