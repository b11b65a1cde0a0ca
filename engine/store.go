package engine

import (
	"github.com/lixenwraith/dockstrike/core"
)

// Store is a typed component container with stable insertion-order iteration
// Dense array plus index map; removal shifts to keep iteration order deterministic
// Not safe for concurrent use, the World writer lock serializes access
type Store[T any] struct {
	dense    []T
	entities []core.Entity
	index    map[core.Entity]int
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		dense:    make([]T, 0, 64),
		entities: make([]core.Entity, 0, 64),
		index:    make(map[core.Entity]int),
	}
}

// SetComponent inserts or updates a component for an entity
func (s *Store[T]) SetComponent(e core.Entity, val T) {
	if i, ok := s.index[e]; ok {
		s.dense[i] = val
		return
	}
	s.index[e] = len(s.dense)
	s.dense = append(s.dense, val)
	s.entities = append(s.entities, e)
}

// GetComponent returns a copy of the component
func (s *Store[T]) GetComponent(e core.Entity) (T, bool) {
	if i, ok := s.index[e]; ok {
		return s.dense[i], true
	}
	var zero T
	return zero, false
}

// RemoveEntity deletes a component, preserving order of the rest
func (s *Store[T]) RemoveEntity(e core.Entity) {
	i, ok := s.index[e]
	if !ok {
		return
	}
	delete(s.index, e)
	copy(s.dense[i:], s.dense[i+1:])
	copy(s.entities[i:], s.entities[i+1:])
	var zero T
	s.dense[len(s.dense)-1] = zero
	s.dense = s.dense[:len(s.dense)-1]
	s.entities = s.entities[:len(s.entities)-1]
	for j := i; j < len(s.entities); j++ {
		s.index[s.entities[j]] = j
	}
}

// GetAllEntities returns a copy of entities in insertion order
func (s *Store[T]) GetAllEntities() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// CountEntities returns number of entities with this component
func (s *Store[T]) CountEntities() int {
	return len(s.entities)
}
