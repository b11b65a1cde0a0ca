// Package render draws a top-down terminal view of a session snapshot.
package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dockstrike/sim"
)

type layerEntry struct {
	layer    Layer
	priority Priority
}

// Terminal composes layers into a buffer and flushes it to a tcell screen
type Terminal struct {
	screen tcell.Screen
	buf    *Buffer
	layers []layerEntry
}

// NewTerminal registers the default layers on an initialized screen
func NewTerminal(screen tcell.Screen) *Terminal {
	w, h := screen.Size()
	t := &Terminal{
		screen: screen,
		buf:    NewBuffer(w, h),
	}
	t.Register(cellLayer{}, PriorityCells)
	t.Register(slotLayer{}, PrioritySlots)
	t.Register(carrierLayer{}, PriorityCarriers)
	t.Register(hudLayer{}, PriorityHUD)
	return t
}

// Register inserts a layer keeping priority then registration order
func (t *Terminal) Register(l Layer, p Priority) {
	e := layerEntry{layer: l, priority: p}
	pos := len(t.layers)
	for i, cur := range t.layers {
		if p < cur.priority {
			pos = i
			break
		}
	}
	t.layers = append(t.layers, layerEntry{})
	copy(t.layers[pos+1:], t.layers[pos:])
	t.layers[pos] = e
}

// Resize follows the screen after a resize event
func (t *Terminal) Resize() {
	w, h := t.screen.Size()
	t.buf.Resize(w, h)
	t.screen.Sync()
}

// Draw renders one frame; the HUD takes the last row
func (t *Terminal) Draw(snap sim.Snapshot, status map[string]any, muted bool) {
	w, h := t.screen.Size()
	if bw, bh := t.buf.Bounds(); bw != w || bh != h {
		t.buf.Resize(w, h)
	} else {
		t.buf.Clear()
	}

	ctx := &Context{
		Snapshot: snap,
		Status:   status,
		Muted:    muted,
		Width:    w,
		Height:   max(h-1, 0),
	}
	ctx.view = fit(snap, ctx.Width, ctx.Height)

	for _, e := range t.layers {
		if tg, ok := e.layer.(Toggle); ok && !tg.Visible() {
			continue
		}
		e.layer.Draw(ctx, t.buf)
	}
	t.buf.Flush(t.screen)
}
