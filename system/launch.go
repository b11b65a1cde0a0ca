package system

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/dockstrike/attach"
	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/targeting"
	"github.com/lixenwraith/dockstrike/vmath"
)

var ErrNoTarget = errors.New("no valid target")

// Launcher creates carriers and sends idle ones toward the nearest free slot
type Launcher struct {
	world    *engine.World
	registry *attach.Registry
	resolver *targeting.Resolver
	motion   *MotionSystem
}

func NewLauncher(world *engine.World, registry *attach.Registry, resolver *targeting.Resolver, motion *MotionSystem) *Launcher {
	return &Launcher{
		world:    world,
		registry: registry,
		resolver: resolver,
		motion:   motion,
	}
}

// Spawn creates an idle carrier parked at pos
func (l *Launcher) Spawn(pos vmath.Vec3F) core.Entity {
	e := l.world.CreateEntity()
	l.world.Carriers.SetComponent(e, component.CarrierComponent{
		State:    component.CarrierIdle,
		CellID:   component.NoCell,
		Start:    pos,
		Position: pos,
		Facing:   vmath.Vec3F{Z: 1},
	})
	return e
}

// Launch moves an idle carrier to from, reserves the nearest slot and starts its flight
func (l *Launcher) Launch(carrier core.Entity, from vmath.Vec3F) (targeting.Target, error) {
	c, ok := l.world.Carriers.GetComponent(carrier)
	if !ok {
		return targeting.Target{}, fmt.Errorf("launch %s: %w", carrier, ErrCarrierNotFound)
	}
	if c.State != component.CarrierIdle {
		return targeting.Target{}, fmt.Errorf("launch %s in %s: %w", carrier, c.State, ErrCarrierBusy)
	}

	c.Position = from
	c.Start = from
	l.world.Carriers.SetComponent(carrier, c)

	target, ok := l.resolver.Acquire(from, component.NoCell, carrier)
	if !ok {
		return targeting.Target{}, fmt.Errorf("launch %s: %w", carrier, ErrNoTarget)
	}
	if err := l.motion.Begin(carrier, target); err != nil {
		l.registry.Release(target.Slot)
		return targeting.Target{}, err
	}

	c, _ = l.world.Carriers.GetComponent(carrier)
	l.world.PushEvent(event.EventLaunch, &event.LaunchPayload{
		Carrier:         carrier,
		Slot:            target.Slot,
		CellID:          target.CellID,
		From:            from,
		To:              target.Position,
		SpeedFactor:     c.SpeedFactor,
		ArcHeightFactor: c.ArcHeightFactor,
	})
	return target, nil
}
