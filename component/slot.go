package component

import (
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/vmath"
)

// SlotComponent is a docking point on a cell
// Occupied is true from reservation until release; Confirmed marks a docked carrier
type SlotComponent struct {
	Cell   core.Entity
	CellID int
	Offset vmath.Vec3F // Local offset from cell center

	Occupied  bool
	Holder    core.Entity // Carrier holding the reservation
	Confirmed bool
}
