package component

import (
	"testing"

	"github.com/lixenwraith/dockstrike/core"
)

// Test the target marker is the slot/cell pair, independent of the cell id value
func TestCarrierHasTarget(t *testing.T) {
	c := CarrierComponent{CellID: NoCell}
	if c.HasTarget() {
		t.Fatal("zero carrier should have no target")
	}

	c.Slot = core.Entity(5)
	c.Cell = core.Entity(3)
	c.CellID = NoCell
	if !c.HasTarget() {
		t.Error("assigned slot and cell should count as a target whatever the cell id")
	}

	c.CellID = 0
	if !c.HasTarget() {
		t.Error("cell id 0 is a valid target")
	}

	c.ClearTarget()
	if c.HasTarget() || c.CellID != NoCell {
		t.Errorf("ClearTarget left %+v", c)
	}
}
