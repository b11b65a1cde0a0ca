package system

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/dockstrike/attach"
	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/config"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/health"
	"github.com/lixenwraith/dockstrike/parameter"
	"github.com/lixenwraith/dockstrike/targeting"
	"github.com/lixenwraith/dockstrike/vmath"
)

var (
	ErrCarrierNotFound = errors.New("carrier not found")
	ErrCarrierBusy     = errors.New("carrier not idle")
	ErrTargetNotHeld   = errors.New("target slot not reserved by carrier")
)

// MotionSystem advances in-flight carriers along their arcs
// Invalid targets are replaced in-flight; carriers with nowhere to go park in Idle
type MotionSystem struct {
	world    *engine.World
	registry *attach.Registry
	resolver *targeting.Resolver
	factors  FactorSource
	impact   *ImpactResolver
	check    targetCheck

	statMoving    *atomic.Int64
	statAttached  *atomic.Int64
	statIdle      *atomic.Int64
	statRetargets *atomic.Int64
	statAborts    *atomic.Int64
}

func NewMotionSystem(
	world *engine.World,
	registry *attach.Registry,
	machine *health.Machine,
	resolver *targeting.Resolver,
	physics engine.Physics,
	factors FactorSource,
	impact *ImpactResolver,
) *MotionSystem {
	reg := world.Resources.Status
	return &MotionSystem{
		world:    world,
		registry: registry,
		resolver: resolver,
		factors:  factors,
		impact:   impact,
		check:    targetCheck{registry: registry, health: machine, physics: physics},

		statMoving:    reg.Ints.Get("carrier.moving"),
		statAttached:  reg.Ints.Get("carrier.attached"),
		statIdle:      reg.Ints.Get("carrier.idle"),
		statRetargets: reg.Ints.Get("motion.retargets"),
		statAborts:    reg.Ints.Get("motion.aborts"),
	}
}

func (s *MotionSystem) Name() string  { return "motion" }
func (s *MotionSystem) Priority() int { return parameter.PriorityMotion }

// Begin starts a flight toward a target the carrier has already reserved
func (s *MotionSystem) Begin(carrier core.Entity, target targeting.Target) error {
	c, ok := s.world.Carriers.GetComponent(carrier)
	if !ok {
		return fmt.Errorf("begin %s: %w", carrier, ErrCarrierNotFound)
	}
	if c.State != component.CarrierIdle {
		return fmt.Errorf("begin %s in %s: %w", carrier, c.State, ErrCarrierBusy)
	}
	if !s.registry.HeldBy(target.Slot, carrier) {
		return fmt.Errorf("begin %s on %s: %w", carrier, target.Slot, ErrTargetNotHeld)
	}

	c.State = component.CarrierMoving
	c.Start = c.Position
	c.Slot = target.Slot
	c.Cell = target.Cell
	c.CellID = target.CellID
	c.Progress = 0
	c.SpeedFactor, c.ArcHeightFactor = s.factors.Draw()
	c.Launches++
	s.orient(&c, target.Position)

	s.world.Carriers.SetComponent(carrier, c)
	return nil
}

func (s *MotionSystem) Update() {
	var moving, attached, idle int64

	for _, e := range s.world.Carriers.GetAllEntities() {
		c, ok := s.world.Carriers.GetComponent(e)
		if !ok {
			continue
		}
		if c.State == component.CarrierMoving {
			s.step(e, &c)
			c, _ = s.world.Carriers.GetComponent(e)
		}

		switch c.State {
		case component.CarrierMoving:
			moving++
		case component.CarrierAttached:
			attached++
		default:
			idle++
		}
	}

	s.statMoving.Store(moving)
	s.statAttached.Store(attached)
	s.statIdle.Store(idle)
}

// step runs one tick of flight and writes the carrier back
func (s *MotionSystem) step(carrier core.Entity, c *component.CarrierComponent) {
	targetPos, reason, ok := s.check.resolve(carrier, c)
	if !ok {
		exclude := component.NoCell
		if reason.CellScoped() {
			exclude = c.CellID
		}
		target, found := s.retarget(carrier, c, reason, c.Slot, c.CellID, exclude)
		if !found {
			s.world.Carriers.SetComponent(carrier, *c)
			return
		}
		targetPos = target.Position
	}

	cfg := s.world.Resources.Config
	if vmath.V3FDist(c.Start, targetPos) < vmath.Epsilon {
		c.Progress = 1
	} else {
		mult := SpeedMultiplier(c.Progress, cfg)
		cycle := cfg.BaseCycleSeconds() / c.SpeedFactor
		c.Progress += s.world.Resources.Time.Delta / cycle * mult
		if c.Progress > 1 {
			c.Progress = 1
		}
	}

	arc := vmath.NewArc(c.Start, targetPos, c.ArcHeightFactor)
	c.Position = arc.At(c.Progress)
	if facing, err := arc.Tangent(c.Progress); err == nil {
		c.Facing = facing
	}

	s.world.Carriers.SetComponent(carrier, *c)

	if c.Progress < 1 {
		return
	}

	oldSlot, oldCellID := c.Slot, c.CellID
	var rejected *RejectedError
	if err := s.impact.Resolve(carrier); errors.As(err, &rejected) {
		r, ok := s.world.Carriers.GetComponent(carrier)
		if !ok {
			return
		}
		exclude := component.NoCell
		if rejected.Reason.CellScoped() {
			exclude = oldCellID
		}
		s.retarget(carrier, &r, event.ReasonImpactRejected, oldSlot, oldCellID, exclude)
		s.world.Carriers.SetComponent(carrier, r)
	} else if err != nil {
		s.world.Resources.Logger.Warn("impact failed", "carrier", carrier, "err", err)
	}
}

// retarget swaps the carrier onto the next-best slot from its current position
// With no candidate the carrier aborts to Idle
func (s *MotionSystem) retarget(carrier core.Entity, c *component.CarrierComponent, reason event.RetargetReason, oldSlot core.Entity, oldCellID, exclude int) (targeting.Target, bool) {
	if oldSlot != 0 && s.registry.HeldBy(oldSlot, carrier) {
		s.registry.Release(oldSlot)
	}

	target, ok := s.resolver.Acquire(c.Position, exclude, carrier)
	if !ok {
		s.abort(carrier, c, reason, oldSlot, oldCellID)
		return targeting.Target{}, false
	}

	c.Start = c.Position
	c.Slot = target.Slot
	c.Cell = target.Cell
	c.CellID = target.CellID
	c.Progress = 0
	c.SpeedFactor, c.ArcHeightFactor = s.factors.Draw()
	c.Retargets++
	s.statRetargets.Add(1)

	s.world.PushEvent(event.EventRetarget, &event.RetargetPayload{
		Carrier:   carrier,
		OldSlot:   oldSlot,
		NewSlot:   target.Slot,
		OldCellID: oldCellID,
		NewCellID: target.CellID,
		Reason:    reason,
	})
	return target, true
}

func (s *MotionSystem) abort(carrier core.Entity, c *component.CarrierComponent, reason event.RetargetReason, oldSlot core.Entity, oldCellID int) {
	if c.Slot != 0 && s.registry.HeldBy(c.Slot, carrier) {
		s.registry.Release(c.Slot)
	}
	c.State = component.CarrierIdle
	c.ClearTarget()
	c.Start = c.Position
	c.Progress = 0
	s.statAborts.Add(1)

	s.world.Resources.Logger.Debug("carrier parked", "carrier", carrier, "reason", reason)
	s.world.PushEvent(event.EventAbort, &event.AbortPayload{
		Carrier:   carrier,
		OldSlot:   oldSlot,
		OldCellID: oldCellID,
		Reason:    reason,
	})
}

// orient sets facing from the launch tangent when the segment is not degenerate
func (s *MotionSystem) orient(c *component.CarrierComponent, target vmath.Vec3F) {
	arc := vmath.NewArc(c.Start, target, c.ArcHeightFactor)
	if facing, err := arc.Tangent(0); err == nil {
		c.Facing = facing
	}
}

// SpeedMultiplier shapes speed over progress: smoothstep up from the floor,
// cruise at 1, smoothstep back down over the final phase
func SpeedMultiplier(progress float64, cfg *config.Config) float64 {
	floor := cfg.MinSpeedMultiplier
	accel := cfg.AccelerationPhaseFraction
	decel := cfg.DecelerationPhaseFraction

	switch {
	case accel > 0 && progress < accel:
		return floor + (1-floor)*vmath.Smoothstep(progress/accel)
	case decel > 0 && progress > 1-decel:
		return floor + (1-floor)*vmath.Smoothstep((1-progress)/decel)
	}
	return 1
}
