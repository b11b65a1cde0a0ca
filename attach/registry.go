// Package attach owns attachment slots: creation, occupancy and cell association.
package attach

import (
	"errors"
	"fmt"
	"iter"

	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/vmath"
)

var (
	// ErrSlotUnavailable reports a reservation lost to another carrier
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrSlotNotFound reports a stale or unknown slot handle
	ErrSlotNotFound = errors.New("slot not found")

	// ErrNotHolder reports a confirm by a carrier that does not hold the reservation
	ErrNotHolder = errors.New("carrier does not hold slot")
)

// Registry is the attachment slot table
// Writers are serialized by the world lock; there is one registry per world
type Registry struct {
	world  *engine.World
	byCell map[core.Entity][]core.Entity // Creation-ordered slots per cell
}

func NewRegistry(world *engine.World) *Registry {
	return &Registry{
		world:  world,
		byCell: make(map[core.Entity][]core.Entity),
	}
}

// AddSlot creates a free slot on a cell at a local offset
// The slot copies the cell's id; a cell without a record yields NoCell
func (r *Registry) AddSlot(cell core.Entity, offset vmath.Vec3F) core.Entity {
	cellID := component.NoCell
	if c, ok := r.world.Cells.GetComponent(cell); ok {
		cellID = c.CellID
	}

	e := r.world.CreateEntity()
	r.world.Slots.SetComponent(e, component.SlotComponent{
		Cell:   cell,
		CellID: cellID,
		Offset: offset,
	})
	r.byCell[cell] = append(r.byCell[cell], e)
	return e
}

// Slot returns a copy of the slot record
func (r *Registry) Slot(slot core.Entity) (component.SlotComponent, bool) {
	if !r.world.Alive(slot) {
		return component.SlotComponent{}, false
	}
	return r.world.Slots.GetComponent(slot)
}

// SlotsOf returns all slots of a cell in creation order
func (r *Registry) SlotsOf(cell core.Entity) []core.Entity {
	slots := r.byCell[cell]
	out := make([]core.Entity, len(slots))
	copy(out, slots)
	return out
}

// Unoccupied yields free slots of a cell in creation order
// The sequence is lazy and re-reads occupancy on each step, so it can be restarted
func (r *Registry) Unoccupied(cell core.Entity) iter.Seq[core.Entity] {
	return func(yield func(core.Entity) bool) {
		for _, e := range r.byCell[cell] {
			s, ok := r.world.Slots.GetComponent(e)
			if !ok || s.Occupied {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Reserve marks a free slot as held by carrier
func (r *Registry) Reserve(slot, carrier core.Entity) error {
	s, ok := r.Slot(slot)
	if !ok {
		return fmt.Errorf("reserve %s: %w", slot, ErrSlotNotFound)
	}
	if s.Occupied {
		return fmt.Errorf("reserve %s held by %s: %w", slot, s.Holder, ErrSlotUnavailable)
	}
	s.Occupied = true
	s.Holder = carrier
	s.Confirmed = false
	r.world.Slots.SetComponent(slot, s)
	return nil
}

// Release clears occupancy; unknown or free slots are ignored
func (r *Registry) Release(slot core.Entity) {
	s, ok := r.Slot(slot)
	if !ok || !s.Occupied {
		return
	}
	s.Occupied = false
	s.Holder = 0
	s.Confirmed = false
	r.world.Slots.SetComponent(slot, s)
}

// Confirm marks the reservation as a docked carrier
func (r *Registry) Confirm(slot, carrier core.Entity) error {
	s, ok := r.Slot(slot)
	if !ok {
		return fmt.Errorf("confirm %s: %w", slot, ErrSlotNotFound)
	}
	if !s.Occupied || s.Holder != carrier {
		return fmt.Errorf("confirm %s by %s: %w", slot, carrier, ErrNotHolder)
	}
	s.Confirmed = true
	r.world.Slots.SetComponent(slot, s)
	return nil
}

// HeldBy reports whether carrier currently holds slot
func (r *Registry) HeldBy(slot, carrier core.Entity) bool {
	s, ok := r.Slot(slot)
	return ok && s.Occupied && s.Holder == carrier
}

// ReleaseCell frees every slot of a cell and returns the carriers that held them
func (r *Registry) ReleaseCell(cell core.Entity) []core.Entity {
	var holders []core.Entity
	for _, e := range r.byCell[cell] {
		s, ok := r.world.Slots.GetComponent(e)
		if !ok || !s.Occupied {
			continue
		}
		holders = append(holders, s.Holder)
		r.Release(e)
	}
	return holders
}

// RemoveCell destroys all slots of a cell
func (r *Registry) RemoveCell(cell core.Entity) {
	for _, e := range r.byCell[cell] {
		r.world.DestroyEntity(e)
	}
	delete(r.byCell, cell)
}

// WorldPosition resolves a slot's world position from its cell center
func (r *Registry) WorldPosition(slot core.Entity, cellCenter vmath.Vec3F) (vmath.Vec3F, bool) {
	s, ok := r.Slot(slot)
	if !ok {
		return vmath.Vec3F{}, false
	}
	return vmath.V3FAdd(cellCenter, s.Offset), true
}
