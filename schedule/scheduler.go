// Package schedule runs tick-counted deferred callbacks.
// Timers never block the tick; cancellation is immediate.
package schedule

import (
	"slices"

	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/parameter"
)

// TimerID identifies a pending timer, zero is never issued
type TimerID uint64

type timer struct {
	id   TimerID
	due  int64
	name string
	fn   func()
}

// Scheduler fires callbacks once the world clock reaches their due tick
// Timers due on the same tick fire in scheduling order
type Scheduler struct {
	world   *engine.World
	pending []timer
	nextID  TimerID
	fired   uint64
}

func NewScheduler(world *engine.World) *Scheduler {
	return &Scheduler{world: world}
}

func (s *Scheduler) Name() string  { return "timekeeper" }
func (s *Scheduler) Priority() int { return parameter.PriorityTimer }

// After schedules fn to run delay ticks from the current tick
// Non-positive delays fire on the current tick's timer pass
func (s *Scheduler) After(delay int, name string, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	t := timer{
		id:   s.nextID,
		due:  s.world.Resources.Time.Tick + int64(delay),
		name: name,
		fn:   fn,
	}
	// Keep sorted by due tick, stable for equal ticks
	i, _ := slices.BinarySearchFunc(s.pending, t.due+1, func(e timer, due int64) int {
		if e.due < due {
			return -1
		}
		return 1
	})
	s.pending = slices.Insert(s.pending, i, t)
	return t.id
}

// Cancel removes a pending timer, reporting whether it was still pending
func (s *Scheduler) Cancel(id TimerID) bool {
	for i, t := range s.pending {
		if t.id == id {
			s.pending = slices.Delete(s.pending, i, i+1)
			return true
		}
	}
	return false
}

// Pending returns the number of timers not yet fired
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Fired returns the total number of callbacks run
func (s *Scheduler) Fired() uint64 {
	return s.fired
}

// Update fires every timer due at or before the current tick
// Callbacks may schedule further timers; those wait for a later pass unless due now
func (s *Scheduler) Update() {
	now := s.world.Resources.Time.Tick
	for len(s.pending) > 0 && s.pending[0].due <= now {
		t := s.pending[0]
		s.pending = s.pending[1:]
		s.fired++
		s.world.Resources.Logger.Debug("timer fired", "name", t.name, "id", t.id, "tick", now)
		t.fn()
	}
}
