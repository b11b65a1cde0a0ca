package engine

import (
	"testing"

	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/event"
)

// Test generational handles are invalidated on destroy and not reused verbatim
func TestEntityGenerations(t *testing.T) {
	w := NewWorld(nil)

	e1 := w.CreateEntity()
	if !w.Alive(e1) {
		t.Fatal("new entity should be alive")
	}

	w.Cells.SetComponent(e1, component.CellComponent{CellID: 7})
	w.DestroyEntity(e1)

	if w.Alive(e1) {
		t.Error("destroyed entity should not be alive")
	}
	if _, ok := w.Cells.GetComponent(e1); ok {
		t.Error("destroy should strip components")
	}

	e2 := w.CreateEntity()
	if e2.Index() != e1.Index() {
		t.Errorf("Expected index reuse, got %d vs %d", e2.Index(), e1.Index())
	}
	if e2 == e1 {
		t.Error("reused slot must carry a new generation")
	}
	if w.Alive(e1) {
		t.Error("stale handle must stay dead after reuse")
	}

	// Double destroy of stale handle is a no-op
	w.DestroyEntity(e1)
	if !w.Alive(e2) {
		t.Error("stale destroy must not affect the new occupant")
	}

	if w.Alive(0) {
		t.Error("zero handle is never alive")
	}
}

// Test store iteration order survives removals
func TestStoreOrderStable(t *testing.T) {
	w := NewWorld(nil)
	s := NewStore[component.CellComponent]()

	for i := 0; i < 5; i++ {
		e := w.CreateEntity()
		s.SetComponent(e, component.CellComponent{CellID: i})
	}

	all := s.GetAllEntities()
	s.RemoveEntity(all[1])
	s.RemoveEntity(all[3])

	got := s.GetAllEntities()
	if len(got) != 3 {
		t.Fatalf("Expected 3 entities, got %d", len(got))
	}
	wantIDs := []int{0, 2, 4}
	for i, e := range got {
		c, ok := s.GetComponent(e)
		if !ok || c.CellID != wantIDs[i] {
			t.Errorf("position %d: got cell %d, want %d", i, c.CellID, wantIDs[i])
		}
	}

	// Update in place keeps position
	c, _ := s.GetComponent(got[1])
	c.HitCount = 9
	s.SetComponent(got[1], c)
	if s.GetAllEntities()[1] != got[1] {
		t.Error("update must not move entity")
	}
	if c2, _ := s.GetComponent(got[1]); c2.HitCount != 9 {
		t.Errorf("update lost, HitCount=%d", c2.HitCount)
	}

	s.RemoveEntity(got[0])
	s.RemoveEntity(got[1])
	if s.CountEntities() != len(got)-2 {
		t.Errorf("CountEntities=%d after removing two", s.CountEntities())
	}
}

type recordingSystem struct {
	name     string
	priority int
	log      *[]string
}

func (r *recordingSystem) Name() string  { return r.name }
func (r *recordingSystem) Priority() int { return r.priority }
func (r *recordingSystem) Update()       { *r.log = append(*r.log, r.name) }

// Test systems run in priority order and the clock advances after the pass
func TestWorldUpdateOrder(t *testing.T) {
	w := NewWorld(nil)
	var order []string

	w.AddSystem(&recordingSystem{"scale", 200, &order})
	w.AddSystem(&recordingSystem{"physics", 10, &order})
	w.AddSystem(&recordingSystem{"motion", 100, &order})

	w.PushEvent(event.EventLaunch, nil)
	w.Update()

	want := []string{"physics", "motion", "scale"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("run order %v, want %v", order, want)
		}
	}
	if w.Resources.Time.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", w.Resources.Time.Tick)
	}

	events := w.Resources.Events.Consume()
	if len(events) != 1 || events[0].Tick != 0 {
		t.Errorf("event should be stamped with the tick it was pushed in: %+v", events)
	}
}
