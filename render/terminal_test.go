package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dockstrike/sim"
	"github.com/lixenwraith/dockstrike/vmath"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func row(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		sb.WriteString(row(s, y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func testSnapshot() sim.Snapshot {
	return sim.Snapshot{
		Session: "test",
		Tick:    7,
		Cells: []sim.CellView{{
			ID:           3,
			Position:     vmath.Vec3F{},
			Radius:       2,
			HitCount:     1,
			RequiredHits: 9,
			Stage:        "alive",
			Scale:        1,
			Slots: []sim.SlotView{
				{Position: vmath.Vec3F{X: 2}, Occupied: true, Confirmed: true},
				{Position: vmath.Vec3F{X: -2}},
			},
		}},
		Carriers: []sim.CarrierView{
			{State: "moving", Position: vmath.Vec3F{X: -6, Z: 4}, Facing: vmath.Vec3F{X: 1}},
			{State: "attached", CellID: 3, Position: vmath.Vec3F{X: 2}},
			{State: "idle", Position: vmath.Vec3F{X: 6, Z: -4}},
		},
	}
}

func TestTerminalDraw(t *testing.T) {
	screen := newScreen(t, 60, 20)
	term := NewTerminal(screen)

	term.Draw(testSnapshot(), map[string]any{"impact.hits": int64(4)}, true)

	hud := row(screen, 19)
	for _, want := range []string{"tick 7", "cells 1", "carriers 1/1/1", "hits 4", "muted"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}

	text := screenText(screen)
	for _, glyph := range []string{"3", ">", "@", "i", "+", "o"} {
		if !strings.Contains(text, glyph) {
			t.Errorf("frame missing %q:\n%s", glyph, text)
		}
	}
}

func TestTerminalDrawEmpty(t *testing.T) {
	screen := newScreen(t, 30, 5)
	term := NewTerminal(screen)
	term.Draw(sim.Snapshot{}, nil, false)

	if hud := row(screen, 4); !strings.Contains(hud, "cells 0") {
		t.Errorf("HUD %q should report no cells", hud)
	}
}

func TestTerminalFollowsResize(t *testing.T) {
	screen := newScreen(t, 30, 5)
	term := NewTerminal(screen)
	screen.SetSize(40, 8)
	term.Draw(testSnapshot(), nil, false)

	if w, h := term.buf.Bounds(); w != 40 || h != 8 {
		t.Errorf("buffer %dx%d, want 40x8", w, h)
	}
	if hud := row(screen, 7); !strings.Contains(hud, "tick 7") {
		t.Errorf("HUD should move to the new last row, got %q", hud)
	}
}

type hiddenLayer struct{ drawn *bool }

func (h hiddenLayer) Draw(*Context, *Buffer) { *h.drawn = true }
func (hiddenLayer) Visible() bool            { return false }

type markLayer struct {
	log *[]string
	tag string
}

func (m markLayer) Draw(*Context, *Buffer) { *m.log = append(*m.log, m.tag) }

func TestRegisterOrder(t *testing.T) {
	screen := newScreen(t, 10, 3)
	term := &Terminal{screen: screen, buf: NewBuffer(10, 3)}

	var order []string
	drawn := false
	term.Register(markLayer{&order, "hud"}, PriorityHUD)
	term.Register(markLayer{&order, "cells-a"}, PriorityCells)
	term.Register(hiddenLayer{&drawn}, PriorityBackground)
	term.Register(markLayer{&order, "cells-b"}, PriorityCells)

	term.Draw(sim.Snapshot{}, nil, false)

	want := []string{"cells-a", "cells-b", "hud"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("draw order %v, want %v", order, want)
	}
	if drawn {
		t.Error("hidden layer should not draw")
	}
}

func TestProjectionFramesScene(t *testing.T) {
	snap := testSnapshot()
	ctx := &Context{Snapshot: snap, Width: 60, Height: 19}
	ctx.view = fit(snap, ctx.Width, ctx.Height)

	for _, c := range snap.Carriers {
		x, y := ctx.Project(c.Position)
		if x < 0 || x >= ctx.Width || y < 0 || y >= ctx.Height {
			t.Errorf("carrier at %v projected off screen to %d,%d", c.Position, x, y)
		}
	}
	// Larger Z is higher on screen
	_, top := ctx.Project(vmath.Vec3F{Z: 4})
	_, bottom := ctx.Project(vmath.Vec3F{Z: -4})
	if top >= bottom {
		t.Errorf("z=4 row %d should be above z=-4 row %d", top, bottom)
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		x, z float64
		want rune
	}{
		{1, 0, '>'},
		{-1, 0.2, '<'},
		{0.1, 1, '^'},
		{0, -1, 'v'},
	}
	for _, tt := range tests {
		if got := heading(tt.x, tt.z); got != tt.want {
			t.Errorf("heading(%v,%v) = %q, want %q", tt.x, tt.z, got, tt.want)
		}
	}
}
