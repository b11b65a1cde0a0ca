// Package sim wires the engagement core into a runnable session.
//
// A Session owns one world and everything that acts on it: the slot registry,
// the health machine, the motion and impact systems, deferred timers and the
// reference physics. All writes go through the world's single writer lock, so
// the real-time loop, network handlers and the terminal view can share it.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lixenwraith/dockstrike/attach"
	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/config"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/health"
	"github.com/lixenwraith/dockstrike/physics"
	"github.com/lixenwraith/dockstrike/schedule"
	"github.com/lixenwraith/dockstrike/system"
	"github.com/lixenwraith/dockstrike/targeting"
	"github.com/lixenwraith/dockstrike/vmath"
)

var ErrCellNotFound = errors.New("cell not found")

// Sink receives each drained event batch after the tick completes
// Sinks run outside the writer lock and may call Snapshot
type Sink interface {
	HandleEvents(tick int64, events []event.GameEvent)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(tick int64, events []event.GameEvent)

func (f SinkFunc) HandleEvents(tick int64, events []event.GameEvent) { f(tick, events) }

// Options configure a session; zero values select defaults
type Options struct {
	Config *config.Config
	Seed   uint64
	Logger *log.Logger

	// Physics replaces the reference bodies; the caller then owns cell bodies
	Physics engine.Physics

	// Factors replaces the seeded random speed and arc draws
	Factors system.FactorSource
}

// Session is one running simulation
type Session struct {
	id     uuid.UUID
	logger *log.Logger

	world     *engine.World
	registry  *attach.Registry
	health    *health.Machine
	resolver  *targeting.Resolver
	motion    *system.MotionSystem
	impact    *system.ImpactResolver
	launcher  *system.Launcher
	scheduler *schedule.Scheduler

	physics engine.Physics
	bodies  *physics.Bodies // nil when physics is external

	// Deferred effects keyed for cancellation
	removals map[core.Entity]schedule.TimerID // cell → cleanup
	settles  map[core.Entity]schedule.TimerID // carrier → bounce end

	sinksMu sync.RWMutex
	sinks   []Sink

	statTicks   *atomic.Int64
	statDropped *atomic.Int64
	statRunning *atomic.Bool
}

// New builds a session from options
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	id := uuid.New()
	logger = logger.With("session", id.String()[:8])

	res := engine.NewResources(cfg, opts.Seed, logger)
	world := engine.NewWorld(res)

	s := &Session{
		id:       id,
		logger:   logger,
		world:    world,
		removals: make(map[core.Entity]schedule.TimerID),
		settles:  make(map[core.Entity]schedule.TimerID),

		statTicks:   res.Status.Ints.Get("tick.count"),
		statDropped: res.Status.Ints.Get("event.dropped"),
		statRunning: res.Status.Bools.Get("session.running"),
	}

	s.physics = opts.Physics
	if s.physics == nil {
		s.bodies = physics.NewBodies()
		s.physics = s.bodies
		world.AddSystem(physics.NewSystem(world, s.bodies))
	}

	factors := opts.Factors
	if factors == nil {
		factors = system.NewRandomFactors(res.Rng, cfg)
	}

	s.registry = attach.NewRegistry(world)
	s.health = health.NewMachine(world)
	s.resolver = targeting.NewResolver(world, s.registry, s.health, s.physics)
	s.impact = system.NewImpactResolver(world, s.registry, s.health, s.physics)
	s.motion = system.NewMotionSystem(world, s.registry, s.health, s.resolver, s.physics, factors, s.impact)
	s.launcher = system.NewLauncher(world, s.registry, s.resolver, s.motion)
	s.scheduler = schedule.NewScheduler(world)

	world.AddSystem(s.motion)
	world.AddSystem(health.NewScaleSystem(world, s.health))
	world.AddSystem(s.scheduler)

	logger.Info("session created", "seed", opts.Seed, "tick_rate", cfg.TickRate)
	return s, nil
}

// ID returns the session's unique id
func (s *Session) ID() string {
	return s.id.String()
}

// Config returns the session's immutable config
func (s *Session) Config() *config.Config {
	return s.world.Resources.Config
}

// Logger returns the session-scoped logger
func (s *Session) Logger() *log.Logger {
	return s.logger
}

// Subscribe registers a sink for drained event batches
func (s *Session) Subscribe(sink Sink) {
	s.sinksMu.Lock()
	s.sinks = append(s.sinks, sink)
	s.sinksMu.Unlock()
}

// CellOption adjusts a spawned cell
type CellOption func(*cellSpec)

type cellSpec struct {
	hits  int
	slots int
}

// WithRequiredHits fixes the hit threshold instead of drawing it
func WithRequiredHits(n int) CellOption {
	return func(c *cellSpec) { c.hits = n }
}

// WithSlots overrides the configured slot count
func WithSlots(n int) CellOption {
	return func(c *cellSpec) { c.slots = n }
}

// SpawnCell creates a cell at pos with slots spread over its surface
func (s *Session) SpawnCell(cellID int, pos vmath.Vec3F, opts ...CellOption) (core.Entity, error) {
	cfg := s.world.Resources.Config
	spec := cellSpec{slots: cfg.SlotsPerCell}
	for _, o := range opts {
		o(&spec)
	}

	var cell core.Entity
	var err error
	s.world.RunSafe(func() {
		if spec.hits > 0 {
			cell, err = s.health.SpawnWithHits(cellID, spec.hits)
		} else {
			cell, err = s.health.Spawn(cellID, s.world.Resources.Rng)
		}
		if err != nil {
			return
		}
		if s.bodies != nil {
			s.bodies.Add(cellID, pos, cfg.CellRadius)
		}
		for _, offset := range vmath.FibonacciSphere(spec.slots, cfg.CellRadius) {
			s.registry.AddSlot(cell, offset)
		}
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("cell spawned", "cell", cellID, "slots", spec.slots)
	return cell, nil
}

// SpawnCarrier parks a new idle carrier at pos
func (s *Session) SpawnCarrier(pos vmath.Vec3F) core.Entity {
	var e core.Entity
	s.world.RunSafe(func() {
		e = s.launcher.Spawn(pos)
	})
	return e
}

// Launch sends an idle carrier from a position toward the nearest free slot
func (s *Session) Launch(carrier core.Entity, from vmath.Vec3F) (targeting.Target, error) {
	var t targeting.Target
	var err error
	s.world.RunSafe(func() {
		t, err = s.launcher.Launch(carrier, from)
	})
	return t, err
}

// LaunchIdle relaunches every idle carrier from where it stands
// Returns the number of carriers that found a target
func (s *Session) LaunchIdle() int {
	n := 0
	s.world.RunSafe(func() {
		for _, e := range s.world.Carriers.GetAllEntities() {
			c, ok := s.world.Carriers.GetComponent(e)
			if !ok || c.State != component.CarrierIdle {
				continue
			}
			if _, err := s.launcher.Launch(e, c.Position); err == nil {
				n++
			} else if !errors.Is(err, system.ErrNoTarget) {
				s.logger.Warn("relaunch failed", "carrier", e, "err", err)
			}
		}
	})
	return n
}

// DestroyCell destroys a cell outside the hit path and schedules its cleanup
func (s *Session) DestroyCell(cellID int) error {
	var err error
	s.world.RunSafe(func() {
		cell, ok := s.health.Lookup(cellID)
		if !ok {
			err = fmt.Errorf("destroy cell %d: %w", cellID, ErrCellNotFound)
			return
		}
		if !s.health.Kill(cell) {
			err = fmt.Errorf("destroy cell %d: %w", cellID, health.ErrCellAlreadyDestroyed)
			return
		}
		c, _ := s.health.Cell(cell)
		s.world.PushEvent(event.EventCellDestroyed, &event.CellPayload{
			Cell:     cell,
			CellID:   cellID,
			HitCount: c.HitCount,
		})
	})
	return err
}

// Tick advances the simulation one step and returns the drained events
func (s *Session) Tick() []event.GameEvent {
	var events []event.GameEvent
	var tick int64
	var dropped uint64

	s.world.RunSafe(func() {
		tick = s.world.Resources.Time.Tick
		s.world.Update()
		events = s.world.Resources.Events.Consume()
		s.react(events)
		dropped = s.world.Resources.Events.Dropped()
	})

	s.statTicks.Store(tick + 1)
	if dropped > 0 {
		s.statDropped.Store(int64(dropped))
	}

	s.sinksMu.RLock()
	sinks := s.sinks
	s.sinksMu.RUnlock()
	for _, sink := range sinks {
		sink.HandleEvents(tick, events)
	}
	return events
}

// react schedules the deferred presentation effects of a drained batch
func (s *Session) react(events []event.GameEvent) {
	cfg := s.world.Resources.Config
	for _, ev := range events {
		switch ev.Type {
		case event.EventCellDestroyed:
			p, ok := ev.Payload.(*event.CellPayload)
			if !ok {
				continue
			}
			s.logger.Info("cell destroyed", "cell", p.CellID, "hits", p.HitCount)
			if _, pending := s.removals[p.Cell]; pending {
				continue
			}
			cell := p.Cell
			s.removals[cell] = s.scheduler.After(cfg.DestroyDelayTicks, "cell-cleanup", func() {
				s.removeCell(cell)
			})

		case event.EventSlotConfirmed:
			p, ok := ev.Payload.(*event.SlotConfirmedPayload)
			if !ok {
				continue
			}
			payload := *p
			s.settles[p.Carrier] = s.scheduler.After(cfg.AttachBounceTicks, "attach-settle", func() {
				delete(s.settles, payload.Carrier)
				s.world.PushEvent(event.EventAttachSettled, &payload)
			})
		}
	}
}

// removeCell completes destruction: frees slots, detaches carriers and drops the body
func (s *Session) removeCell(cell core.Entity) {
	delete(s.removals, cell)

	c, ok := s.health.Cell(cell)
	if !ok {
		return
	}
	if err := s.health.MarkRemoved(cell); err != nil {
		s.logger.Warn("cell cleanup skipped", "cell", c.CellID, "err", err)
		return
	}

	for _, holder := range s.registry.ReleaseCell(cell) {
		if id, pending := s.settles[holder]; pending {
			s.scheduler.Cancel(id)
			delete(s.settles, holder)
		}
		carrier, ok := s.world.Carriers.GetComponent(holder)
		if !ok || carrier.State != component.CarrierAttached {
			continue
		}
		carrier.State = component.CarrierIdle
		carrier.ClearTarget()
		carrier.Start = carrier.Position
		carrier.Progress = 0
		s.world.Carriers.SetComponent(holder, carrier)
	}

	s.registry.RemoveCell(cell)
	if s.bodies != nil {
		s.bodies.Remove(c.CellID)
	}
	if err := s.health.Forget(cell); err != nil {
		s.logger.Warn("cell forget failed", "cell", c.CellID, "err", err)
	}

	s.world.PushEvent(event.EventCellRemoved, &event.CellPayload{
		Cell:     cell,
		CellID:   c.CellID,
		HitCount: c.HitCount,
	})
	s.logger.Debug("cell removed", "cell", c.CellID)
}

// Run ticks at the configured rate until ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.world.Resources.Config.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.statRunning.Store(true)
	defer s.statRunning.Store(false)

	s.logger.Info("session running", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped", "tick", s.CurrentTick())
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}

// CurrentTick returns the number of completed ticks
func (s *Session) CurrentTick() int64 {
	var t int64
	s.world.RunSafe(func() {
		t = s.world.Resources.Time.Tick
	})
	return t
}

// Status returns a flat view of all session metrics
func (s *Session) Status() map[string]any {
	out := s.world.Resources.Status.Snapshot()
	out["session"] = s.ID()
	return out
}
