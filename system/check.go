package system

import (
	"github.com/lixenwraith/dockstrike/attach"
	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/health"
	"github.com/lixenwraith/dockstrike/vmath"
)

// targetCheck validates a carrier's slot against current registry, health and physics state
type targetCheck struct {
	registry *attach.Registry
	health   *health.Machine
	physics  engine.Physics
}

// resolve returns the slot's world position, or the reason the target is unusable
func (t *targetCheck) resolve(carrier core.Entity, c *component.CarrierComponent) (vmath.Vec3F, event.RetargetReason, bool) {
	if !c.HasTarget() {
		return vmath.Vec3F{}, event.ReasonSlotMissing, false
	}

	slot, ok := t.registry.Slot(c.Slot)
	if !ok {
		return vmath.Vec3F{}, event.ReasonSlotMissing, false
	}

	cell, ok := t.health.Cell(slot.Cell)
	if !ok {
		return vmath.Vec3F{}, event.ReasonCellMissing, false
	}
	if cell.Destroyed || cell.Lethal() {
		return vmath.Vec3F{}, event.ReasonCellDestroyed, false
	}
	if slot.CellID != c.CellID || cell.CellID != c.CellID {
		return vmath.Vec3F{}, event.ReasonCellMismatch, false
	}
	if !slot.Occupied || slot.Holder != carrier {
		return vmath.Vec3F{}, event.ReasonSlotLost, false
	}

	center, ok := t.physics.CellPosition(c.CellID)
	if !ok {
		return vmath.Vec3F{}, event.ReasonCellMissing, false
	}
	return vmath.V3FAdd(center, slot.Offset), 0, true
}
