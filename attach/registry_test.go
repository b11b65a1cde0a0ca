package attach

import (
	"errors"
	"testing"

	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/vmath"
)

func newRegistry(t *testing.T, slots int) (*Registry, *engine.World, core.Entity, []core.Entity) {
	t.Helper()
	w := engine.NewWorld(nil)
	r := NewRegistry(w)
	cell := w.CreateEntity()
	w.Cells.SetComponent(cell, component.CellComponent{CellID: 1, RequiredHits: 7})
	out := make([]core.Entity, slots)
	for i := range out {
		out[i] = r.AddSlot(cell, vmath.Vec3F{X: float64(i)})
	}
	return r, w, cell, out
}

func collect(seq func(func(core.Entity) bool)) []core.Entity {
	var out []core.Entity
	for e := range seq {
		out = append(out, e)
	}
	return out
}

func TestReserveExclusive(t *testing.T) {
	r, w, _, slots := newRegistry(t, 1)
	a, b := w.CreateEntity(), w.CreateEntity()

	if err := r.Reserve(slots[0], a); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	err := r.Reserve(slots[0], b)
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("second reserve err = %v, want ErrSlotUnavailable", err)
	}
	if !r.HeldBy(slots[0], a) || r.HeldBy(slots[0], b) {
		t.Error("holder must remain the first carrier")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	r, w, _, slots := newRegistry(t, 1)
	c := w.CreateEntity()

	r.Release(slots[0]) // free slot
	if err := r.Reserve(slots[0], c); err != nil {
		t.Fatal(err)
	}
	r.Release(slots[0])
	r.Release(slots[0])
	r.Release(core.MakeEntity(999, 1)) // unknown

	s, _ := r.Slot(slots[0])
	if s.Occupied || s.Holder != 0 {
		t.Errorf("slot should be free after release: %+v", s)
	}
	if err := r.Reserve(slots[0], c); err != nil {
		t.Errorf("reserve after release: %v", err)
	}
}

func TestUnoccupiedLazyRestartable(t *testing.T) {
	r, w, cell, slots := newRegistry(t, 4)
	c := w.CreateEntity()

	if got := collect(r.Unoccupied(cell)); len(got) != 4 {
		t.Fatalf("Expected 4 free slots, got %d", len(got))
	}

	seq := r.Unoccupied(cell)
	if err := r.Reserve(slots[1], c); err != nil {
		t.Fatal(err)
	}

	// Same sequence value reflects the reservation on restart
	got := collect(seq)
	want := []core.Entity{slots[0], slots[2], slots[3]}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order mismatch at %d: %v vs %v", i, got[i], want[i])
		}
	}

	// Early break stops iteration
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("break should stop after one, got %d", n)
	}

	if got := collect(r.Unoccupied(w.CreateEntity())); got != nil {
		t.Errorf("unknown cell should yield nothing, got %v", got)
	}
}

func TestConfirmRequiresHolder(t *testing.T) {
	r, w, _, slots := newRegistry(t, 1)
	a, b := w.CreateEntity(), w.CreateEntity()

	if err := r.Confirm(slots[0], a); !errors.Is(err, ErrNotHolder) {
		t.Errorf("confirm on free slot err = %v", err)
	}
	if err := r.Reserve(slots[0], a); err != nil {
		t.Fatal(err)
	}
	if err := r.Confirm(slots[0], b); !errors.Is(err, ErrNotHolder) {
		t.Errorf("confirm by non-holder err = %v", err)
	}
	if err := r.Confirm(slots[0], a); err != nil {
		t.Errorf("confirm by holder: %v", err)
	}
	s, _ := r.Slot(slots[0])
	if !s.Confirmed || !s.Occupied {
		t.Errorf("slot should be occupied and confirmed: %+v", s)
	}
}

func TestReleaseCellAndRemove(t *testing.T) {
	r, w, cell, slots := newRegistry(t, 3)
	a, b := w.CreateEntity(), w.CreateEntity()
	_ = r.Reserve(slots[0], a)
	_ = r.Reserve(slots[2], b)

	holders := r.ReleaseCell(cell)
	if len(holders) != 2 || holders[0] != a || holders[1] != b {
		t.Errorf("holders = %v", holders)
	}
	if got := collect(r.Unoccupied(cell)); len(got) != 3 {
		t.Errorf("all slots should be free, got %d", len(got))
	}

	r.RemoveCell(cell)
	if _, ok := r.Slot(slots[0]); ok {
		t.Error("removed slot should not resolve")
	}
	if err := r.Reserve(slots[1], a); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("reserve on removed slot err = %v", err)
	}
}

func TestAddSlotCopiesCellID(t *testing.T) {
	r, w, cell, slots := newRegistry(t, 2)
	s, ok := r.Slot(slots[1])
	if !ok || s.CellID != 1 || s.Cell != cell {
		t.Errorf("slot record = %+v", s)
	}

	bare := r.AddSlot(w.CreateEntity(), vmath.Vec3F{})
	if s, _ := r.Slot(bare); s.CellID != component.NoCell {
		t.Errorf("slot on unknown cell should carry NoCell, got %d", s.CellID)
	}
	if len(r.SlotsOf(cell)) != 2 {
		t.Error("SlotsOf should list the cell's slots only")
	}
}

func TestWorldPosition(t *testing.T) {
	r, _, _, slots := newRegistry(t, 3)
	pos, ok := r.WorldPosition(slots[2], vmath.Vec3F{X: 10, Y: 1})
	if !ok || pos != (vmath.Vec3F{X: 12, Y: 1}) {
		t.Errorf("WorldPosition = %+v, %v", pos, ok)
	}
}
