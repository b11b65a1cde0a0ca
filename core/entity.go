package core

import "fmt"

// Entity is a generational handle into the world arena
// Low 32 bits hold the slot index, high 32 bits hold the generation
// Zero is never allocated and means "none"
type Entity uint64

// MakeEntity packs index and generation into a handle
func MakeEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index returns the arena slot index
func (e Entity) Index() uint32 { return uint32(e) }

// Generation returns the generation counter of the slot at allocation time
func (e Entity) Generation() uint32 { return uint32(e >> 32) }

// Valid reports whether the handle is non-zero
func (e Entity) Valid() bool { return e != 0 }

func (e Entity) String() string {
	if e == 0 {
		return "none"
	}
	return fmt.Sprintf("%d:%d", e.Index(), e.Generation())
}
