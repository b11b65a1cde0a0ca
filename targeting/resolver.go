// Package targeting picks the nearest free attachment slot on a living cell.
package targeting

import (
	"cmp"
	"errors"
	"slices"

	"github.com/lixenwraith/dockstrike/attach"
	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/health"
	"github.com/lixenwraith/dockstrike/vmath"
)

// Target is a resolved slot with its world position at resolution time
type Target struct {
	Slot     core.Entity
	Cell     core.Entity
	CellID   int
	Position vmath.Vec3F
	Distance float64
}

// Resolver searches living cells for the closest unoccupied slot
type Resolver struct {
	world    *engine.World
	registry *attach.Registry
	health   *health.Machine
	physics  engine.Physics
}

func NewResolver(world *engine.World, registry *attach.Registry, machine *health.Machine, physics engine.Physics) *Resolver {
	return &Resolver{
		world:    world,
		registry: registry,
		health:   machine,
		physics:  physics,
	}
}

// FindNearest returns the closest free slot, skipping cell exclude (NoCell skips nothing)
// Ties keep the first candidate in scan order: ascending cell id, then slot creation order
// It never changes occupancy
func (r *Resolver) FindNearest(from vmath.Vec3F, exclude int) (Target, bool) {
	var best Target
	found := false

	for _, cell := range r.livingCells(exclude) {
		r.scanCell(from, cell, func(t Target) bool {
			if !found || t.Distance < best.Distance {
				best = t
				found = true
			}
			return true
		})
	}
	return best, found
}

// Acquire finds and reserves the nearest slot for carrier
// A lost reservation falls through to the next-best candidate
func (r *Resolver) Acquire(from vmath.Vec3F, exclude int, carrier core.Entity) (Target, bool) {
	candidates := r.candidates(from, exclude)
	for _, t := range candidates {
		err := r.registry.Reserve(t.Slot, carrier)
		if err == nil {
			return t, true
		}
		if errors.Is(err, attach.ErrSlotUnavailable) || errors.Is(err, attach.ErrSlotNotFound) {
			continue
		}
		r.world.Resources.Logger.Warn("reserve failed", "slot", t.Slot, "carrier", carrier, "err", err)
	}
	return Target{}, false
}

// candidates lists every free slot ordered by distance, scan order breaking ties
func (r *Resolver) candidates(from vmath.Vec3F, exclude int) []Target {
	var out []Target
	for _, cell := range r.livingCells(exclude) {
		r.scanCell(from, cell, func(t Target) bool {
			out = append(out, t)
			return true
		})
	}
	slices.SortStableFunc(out, func(a, b Target) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return out
}

func (r *Resolver) scanCell(from vmath.Vec3F, cell component.CellComponent, visit func(Target) bool) {
	cellEntity, ok := r.health.Lookup(cell.CellID)
	if !ok {
		return
	}
	center, ok := r.physics.CellPosition(cell.CellID)
	if !ok {
		return
	}
	for slot := range r.registry.Unoccupied(cellEntity) {
		pos, ok := r.registry.WorldPosition(slot, center)
		if !ok {
			continue
		}
		t := Target{
			Slot:     slot,
			Cell:     cellEntity,
			CellID:   cell.CellID,
			Position: pos,
			Distance: vmath.V3FDist(from, pos),
		}
		if !visit(t) {
			return
		}
	}
}

// livingCells returns targetable cells sorted by id
func (r *Resolver) livingCells(exclude int) []component.CellComponent {
	var cells []component.CellComponent
	for _, e := range r.world.Cells.GetAllEntities() {
		if !r.health.Living(e) {
			continue
		}
		c, _ := r.world.Cells.GetComponent(e)
		if exclude != component.NoCell && c.CellID == exclude {
			continue
		}
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b component.CellComponent) int {
		return cmp.Compare(a.CellID, b.CellID)
	})
	return cells
}
