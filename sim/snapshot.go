package sim

import (
	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/vmath"
)

// SlotView is a read-only slot record
type SlotView struct {
	ID        string      `json:"id" msgpack:"id"`
	Position  vmath.Vec3F `json:"position" msgpack:"position"`
	Occupied  bool        `json:"occupied" msgpack:"occupied"`
	Confirmed bool        `json:"confirmed" msgpack:"confirmed"`
}

// CellView is a read-only cell record with world-space slots
type CellView struct {
	ID           int         `json:"id" msgpack:"id"`
	Position     vmath.Vec3F `json:"position" msgpack:"position"`
	Radius       float64     `json:"radius" msgpack:"radius"`
	HitCount     int         `json:"hit_count" msgpack:"hit_count"`
	RequiredHits int         `json:"required_hits" msgpack:"required_hits"`
	Stage        string      `json:"stage" msgpack:"stage"`
	Scale        float64     `json:"scale" msgpack:"scale"`
	Slots        []SlotView  `json:"slots" msgpack:"slots"`
}

// CarrierView is a read-only carrier record
type CarrierView struct {
	ID       string      `json:"id" msgpack:"id"`
	State    string      `json:"state" msgpack:"state"`
	CellID   int         `json:"cell_id" msgpack:"cell_id"`
	Position vmath.Vec3F `json:"position" msgpack:"position"`
	Facing   vmath.Vec3F `json:"facing" msgpack:"facing"`
	Progress float64     `json:"progress" msgpack:"progress"`
}

// Snapshot is a consistent copy of the session at one tick
type Snapshot struct {
	Session  string        `json:"session" msgpack:"session"`
	Tick     int64         `json:"tick" msgpack:"tick"`
	Cells    []CellView    `json:"cells" msgpack:"cells"`
	Carriers []CarrierView `json:"carriers" msgpack:"carriers"`
}

// Snapshot copies the current state under the writer lock
// Cells without a physics position are omitted
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Session: s.ID()}
	radius := s.world.Resources.Config.CellRadius

	s.world.RunSafe(func() {
		snap.Tick = s.world.Resources.Time.Tick
		snap.Cells = make([]CellView, 0, s.world.Cells.CountEntities())
		snap.Carriers = make([]CarrierView, 0, s.world.Carriers.CountEntities())

		for _, e := range s.world.Cells.GetAllEntities() {
			c, ok := s.world.Cells.GetComponent(e)
			if !ok {
				continue
			}
			center, ok := s.physics.CellPosition(c.CellID)
			if !ok {
				continue
			}
			view := CellView{
				ID:           c.CellID,
				Position:     center,
				Radius:       radius * c.CurrentScale,
				HitCount:     c.HitCount,
				RequiredHits: c.RequiredHits,
				Stage:        c.Stage.String(),
				Scale:        c.CurrentScale,
			}
			for _, slot := range s.registry.SlotsOf(e) {
				rec, ok := s.registry.Slot(slot)
				if !ok {
					continue
				}
				pos, _ := s.registry.WorldPosition(slot, center)
				view.Slots = append(view.Slots, SlotView{
					ID:        slot.String(),
					Position:  pos,
					Occupied:  rec.Occupied,
					Confirmed: rec.Confirmed,
				})
			}
			snap.Cells = append(snap.Cells, view)
		}

		for _, e := range s.world.Carriers.GetAllEntities() {
			c, ok := s.world.Carriers.GetComponent(e)
			if !ok {
				continue
			}
			// Docked carriers ride their cell
			pos := c.Position
			if c.State == component.CarrierAttached {
				if center, ok := s.physics.CellPosition(c.CellID); ok {
					if p, ok := s.registry.WorldPosition(c.Slot, center); ok {
						pos = p
					}
				}
			}
			snap.Carriers = append(snap.Carriers, CarrierView{
				ID:       e.String(),
				State:    c.State.String(),
				CellID:   c.CellID,
				Position: pos,
				Facing:   c.Facing,
				Progress: c.Progress,
			})
		}
	})
	return snap
}
