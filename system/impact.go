package system

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/dockstrike/attach"
	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/health"
	"github.com/lixenwraith/dockstrike/vmath"
)

var ErrNotInFlight = errors.New("carrier not in flight")

// RejectedError reports an arrival whose target failed the final check
// The carrier has been released and left Moving with no target
type RejectedError struct {
	Carrier core.Entity
	Reason  event.RetargetReason
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("impact rejected for %s: %s", e.Carrier, e.Reason)
}

// ImpactResolver commits an arrived carrier to its slot and damages the cell
type ImpactResolver struct {
	world    *engine.World
	registry *attach.Registry
	health   *health.Machine
	physics  engine.Physics
	check    targetCheck

	statHits      *atomic.Int64
	statDropped   *atomic.Int64
	statDestroyed *atomic.Int64
	statRejected  *atomic.Int64
}

func NewImpactResolver(world *engine.World, registry *attach.Registry, machine *health.Machine, physics engine.Physics) *ImpactResolver {
	reg := world.Resources.Status
	return &ImpactResolver{
		world:    world,
		registry: registry,
		health:   machine,
		physics:  physics,
		check:    targetCheck{registry: registry, health: machine, physics: physics},

		statHits:      reg.Ints.Get("impact.hits"),
		statDropped:   reg.Ints.Get("impact.dropped"),
		statDestroyed: reg.Ints.Get("cell.destroyed"),
		statRejected:  reg.Ints.Get("impact.rejected"),
	}
}

// Resolve runs once per arrival
func (r *ImpactResolver) Resolve(carrier core.Entity) error {
	c, ok := r.world.Carriers.GetComponent(carrier)
	if !ok {
		return fmt.Errorf("resolve %s: %w", carrier, ErrCarrierNotFound)
	}
	if c.State != component.CarrierMoving {
		return fmt.Errorf("resolve %s in %s: %w", carrier, c.State, ErrNotInFlight)
	}

	targetPos, reason, ok := r.check.resolve(carrier, &c)
	if !ok {
		if c.Slot != 0 && r.registry.HeldBy(c.Slot, carrier) {
			r.registry.Release(c.Slot)
		}
		c.ClearTarget()
		c.Start = c.Position
		c.Progress = 0
		r.world.Carriers.SetComponent(carrier, c)
		r.statRejected.Add(1)
		return &RejectedError{Carrier: carrier, Reason: reason}
	}

	cfg := r.world.Resources.Config
	logger := r.world.Resources.Logger

	dir, err := vmath.V3FDirection(vmath.V3FSub(targetPos, c.Start))
	if err != nil {
		logger.Debug("impact impulse skipped", "carrier", carrier, "cell", c.CellID, "err", err)
	} else {
		r.physics.ApplyLinearImpulse(c.CellID, vmath.V3FScale(dir, cfg.ImpactLinearImpulseMagnitude))
		r.physics.ApplyAngularImpulse(c.CellID, vmath.Up, r.world.Resources.Rng.Sign()*cfg.ImpactAngularImpulseMagnitude)
	}

	if err := r.registry.Confirm(c.Slot, carrier); err != nil {
		logger.Warn("slot confirm failed", "carrier", carrier, "slot", c.Slot, "err", err)
	} else {
		r.world.PushEvent(event.EventSlotConfirmed, &event.SlotConfirmedPayload{
			Carrier: carrier,
			Slot:    c.Slot,
			CellID:  c.CellID,
		})
	}

	hitCount := 0
	out, err := r.health.RegisterHit(c.Cell)
	switch {
	case errors.Is(err, health.ErrCellAlreadyDestroyed):
		r.statDropped.Add(1)
		hitCount = out.NewCount
		logger.Debug("hit on destroyed cell dropped", "carrier", carrier, "cell", c.CellID)
	case err != nil:
		r.statDropped.Add(1)
		logger.Warn("hit not registered", "carrier", carrier, "cell", c.CellID, "err", err)
	default:
		r.statHits.Add(1)
		hitCount = out.NewCount
		if out.HasScale {
			r.world.PushEvent(event.EventCellScale, &event.CellScalePayload{
				Cell:   c.Cell,
				CellID: c.CellID,
				Scale:  out.Scale,
			})
		}
		if out.JustDestroyed {
			r.statDestroyed.Add(1)
			r.world.PushEvent(event.EventCellDestroyed, &event.CellPayload{
				Cell:     c.Cell,
				CellID:   c.CellID,
				HitCount: out.NewCount,
			})
		}
	}

	c.State = component.CarrierAttached
	c.Progress = 1
	c.Position = targetPos
	r.world.Carriers.SetComponent(carrier, c)

	r.world.PushEvent(event.EventArrive, &event.ArrivePayload{
		Carrier:  carrier,
		Slot:     c.Slot,
		CellID:   c.CellID,
		HitCount: hitCount,
	})
	return nil
}
