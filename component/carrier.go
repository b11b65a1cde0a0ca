package component

import (
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/vmath"
)

// CarrierState represents carrier lifecycle state
type CarrierState uint8

const (
	CarrierIdle     CarrierState = iota // Parked, no target
	CarrierMoving                       // In flight, includes retargeting
	CarrierAttached                     // Terminal, docked on a slot
)

func (s CarrierState) String() string {
	switch s {
	case CarrierIdle:
		return "idle"
	case CarrierMoving:
		return "moving"
	case CarrierAttached:
		return "attached"
	}
	return "unknown"
}

// NoCell marks an unset target cell id
const NoCell = -1

// CarrierComponent holds carrier flight state (pure data)
type CarrierComponent struct {
	State CarrierState

	// Flight segment
	Start    vmath.Vec3F
	Slot     core.Entity // Reserved or attached slot, 0 = none
	Cell     core.Entity // Cell entity owning Slot, 0 = none
	CellID   int         // Target cell id, NoCell = none
	Progress float64     // [0,1], reset only by retarget

	// Per-launch variety, redrawn at launch and retarget
	SpeedFactor     float64
	ArcHeightFactor float64

	// Last evaluated pose
	Position vmath.Vec3F
	Facing   vmath.Vec3F

	// Counters
	Launches  int
	Retargets int
}

// HasTarget reports whether slot and cell are both assigned
func (c *CarrierComponent) HasTarget() bool {
	return c.Slot != 0 && c.Cell != 0
}

// ClearTarget drops slot and cell assignment
func (c *CarrierComponent) ClearTarget() {
	c.Slot = 0
	c.Cell = 0
	c.CellID = NoCell
}
