package engine

import (
	"sync"

	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/event"
)

// System is a per-tick participant ordered by Priority (lower first)
type System interface {
	Name() string
	Priority() int
	Update()
}

// World is the arena of carriers, slots and cells for one simulation
type World struct {
	updateMutex sync.Mutex

	// Generational allocator
	generations []uint32
	live        []bool
	free        []uint32

	Carriers *Store[component.CarrierComponent]
	Slots    *Store[component.SlotComponent]
	Cells    *Store[component.CellComponent]

	Resources *Resources

	systems []System
}

// NewWorld creates an empty world bound to resources
func NewWorld(res *Resources) *World {
	if res == nil {
		res = NewResources(nil, 1, nil)
	}
	return &World{
		Carriers:  NewStore[component.CarrierComponent](),
		Slots:     NewStore[component.SlotComponent](),
		Cells:     NewStore[component.CellComponent](),
		Resources: res,
	}
}

// CreateEntity allocates a handle, reusing freed indices with a bumped generation
func (w *World) CreateEntity() core.Entity {
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		w.live[idx] = true
		return core.MakeEntity(idx, w.generations[idx])
	}
	idx := uint32(len(w.generations))
	w.generations = append(w.generations, 1)
	w.live = append(w.live, true)
	return core.MakeEntity(idx, 1)
}

// Alive reports whether the handle refers to a current allocation
func (w *World) Alive(e core.Entity) bool {
	if e == 0 {
		return false
	}
	idx := e.Index()
	if int(idx) >= len(w.generations) {
		return false
	}
	return w.live[idx] && w.generations[idx] == e.Generation()
}

// DestroyEntity removes all components and invalidates the handle
// Stale handles are ignored
func (w *World) DestroyEntity(e core.Entity) {
	if !w.Alive(e) {
		return
	}
	w.Carriers.RemoveEntity(e)
	w.Slots.RemoveEntity(e)
	w.Cells.RemoveEntity(e)

	idx := e.Index()
	w.live[idx] = false
	w.generations[idx]++
	w.free = append(w.free, idx)
}

// AddSystem registers a system, keeping priority order stable
func (w *World) AddSystem(system System) {
	w.systems = append(w.systems, system)
	// Insertion sort, small N
	for i := len(w.systems) - 1; i > 0 && w.systems[i].Priority() < w.systems[i-1].Priority(); i-- {
		w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
	}
}

// Systems returns a copy of the registered systems in run order
func (w *World) Systems() []System {
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Update runs one pass of every system, then advances the clock
func (w *World) Update() {
	for _, s := range w.systems {
		s.Update()
	}
	w.Resources.Time.Tick++
}

// PushEvent stamps and enqueues an outbound signal
func (w *World) PushEvent(t event.EventType, payload any) {
	w.Resources.Events.Push(event.GameEvent{
		Type:    t,
		Payload: payload,
		Tick:    w.Resources.Time.Tick,
	})
}

// RunSafe executes fn while holding the single writer lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}
