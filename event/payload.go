package event

import (
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/vmath"
)

// RetargetReason identifies why a carrier's target became invalid
type RetargetReason uint8

const (
	ReasonSlotMissing    RetargetReason = iota // Slot entity gone
	ReasonSlotLost                             // Slot no longer held by this carrier
	ReasonCellMissing                          // Owning cell gone
	ReasonCellDestroyed                        // Owning cell destroyed or lethal
	ReasonCellMismatch                         // Slot's cell id differs from the carrier's
	ReasonImpactRejected                       // Arrival re-check failed
)

func (r RetargetReason) String() string {
	switch r {
	case ReasonSlotMissing:
		return "slot_missing"
	case ReasonSlotLost:
		return "slot_lost"
	case ReasonCellMissing:
		return "cell_missing"
	case ReasonCellDestroyed:
		return "cell_destroyed"
	case ReasonCellMismatch:
		return "cell_mismatch"
	case ReasonImpactRejected:
		return "impact_rejected"
	}
	return "unknown"
}

// CellScoped reports whether the whole cell, not just the slot, is unusable
func (r RetargetReason) CellScoped() bool {
	return r == ReasonCellMissing || r == ReasonCellDestroyed || r == ReasonCellMismatch
}

// LaunchPayload describes a new flight
type LaunchPayload struct {
	Carrier         core.Entity `json:"carrier" msgpack:"carrier"`
	Slot            core.Entity `json:"slot" msgpack:"slot"`
	CellID          int         `json:"cell_id" msgpack:"cell_id"`
	From            vmath.Vec3F `json:"from" msgpack:"from"`
	To              vmath.Vec3F `json:"to" msgpack:"to"`
	SpeedFactor     float64     `json:"speed_factor" msgpack:"speed_factor"`
	ArcHeightFactor float64     `json:"arc_height_factor" msgpack:"arc_height_factor"`
}

// RetargetPayload describes a target swap
type RetargetPayload struct {
	Carrier   core.Entity    `json:"carrier" msgpack:"carrier"`
	OldSlot   core.Entity    `json:"old_slot" msgpack:"old_slot"`
	NewSlot   core.Entity    `json:"new_slot" msgpack:"new_slot"`
	OldCellID int            `json:"old_cell_id" msgpack:"old_cell_id"`
	NewCellID int            `json:"new_cell_id" msgpack:"new_cell_id"`
	Reason    RetargetReason `json:"reason" msgpack:"reason"`
}

// AbortPayload describes a carrier parked in Idle
type AbortPayload struct {
	Carrier   core.Entity    `json:"carrier" msgpack:"carrier"`
	OldSlot   core.Entity    `json:"old_slot" msgpack:"old_slot"`
	OldCellID int            `json:"old_cell_id" msgpack:"old_cell_id"`
	Reason    RetargetReason `json:"reason" msgpack:"reason"`
}

// ArrivePayload describes a committed impact
type ArrivePayload struct {
	Carrier  core.Entity `json:"carrier" msgpack:"carrier"`
	Slot     core.Entity `json:"slot" msgpack:"slot"`
	CellID   int         `json:"cell_id" msgpack:"cell_id"`
	HitCount int         `json:"hit_count" msgpack:"hit_count"`
}

// SlotConfirmedPayload carries the re-parent request
type SlotConfirmedPayload struct {
	Carrier core.Entity `json:"carrier" msgpack:"carrier"`
	Slot    core.Entity `json:"slot" msgpack:"slot"`
	CellID  int         `json:"cell_id" msgpack:"cell_id"`
}

// CellScalePayload carries a new shrink target
type CellScalePayload struct {
	Cell   core.Entity `json:"cell" msgpack:"cell"`
	CellID int         `json:"cell_id" msgpack:"cell_id"`
	Scale  float64     `json:"scale" msgpack:"scale"`
}

// CellPayload identifies a cell in destruction signals
type CellPayload struct {
	Cell     core.Entity `json:"cell" msgpack:"cell"`
	CellID   int         `json:"cell_id" msgpack:"cell_id"`
	HitCount int         `json:"hit_count" msgpack:"hit_count"`
}
