package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Layer draws one aspect of the scene into the frame buffer
type Layer interface {
	Draw(ctx *Context, buf *Buffer)
}

// Toggle is optionally implemented by layers that can be hidden
type Toggle interface {
	Visible() bool
}

var (
	styleHealthy  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDamaged  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCritical = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleDying    = tcell.StyleDefault.Foreground(tcell.ColorRed).Dim(true)
	styleSlotFree = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSlotHeld = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleMoving   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAttached = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleIdle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHUD      = tcell.StyleDefault.Reverse(true)
)

// cellLayer draws each cell as a disc tinted by damage
type cellLayer struct{}

func cellStyle(hits, required int, stage string) (tcell.Style, rune) {
	if stage != "alive" {
		return styleDying, 'x'
	}
	ratio := 0.0
	if required > 0 {
		ratio = float64(hits) / float64(required)
	}
	switch {
	case ratio >= 0.75:
		return styleCritical, 'o'
	case ratio >= 0.4:
		return styleDamaged, 'o'
	}
	return styleHealthy, 'o'
}

func (cellLayer) Draw(ctx *Context, buf *Buffer) {
	for _, c := range ctx.Snapshot.Cells {
		style, rim := cellStyle(c.HitCount, c.RequiredHits, c.Stage)
		cx, cy := ctx.Project(c.Position)
		r := ctx.Columns(c.Radius)

		if r < 1 {
			buf.Set(cx, cy, rim, style)
			continue
		}
		ry := int(math.Ceil(r / cellAspect))
		ri := int(math.Ceil(r))
		for dy := -ry; dy <= ry; dy++ {
			for dx := -ri; dx <= ri; dx++ {
				d := math.Hypot(float64(dx), float64(dy)*cellAspect)
				switch {
				case d > r:
				case d > r-1:
					buf.Set(cx+dx, cy+dy, rim, style)
				default:
					buf.Set(cx+dx, cy+dy, '.', style)
				}
			}
		}
		buf.Text(cx-len(strconv.Itoa(c.ID))/2, cy, strconv.Itoa(c.ID), style.Bold(true))
	}
}

// slotLayer marks free and held docking points
type slotLayer struct{}

func (slotLayer) Draw(ctx *Context, buf *Buffer) {
	for _, c := range ctx.Snapshot.Cells {
		for _, s := range c.Slots {
			x, y := ctx.Project(s.Position)
			switch {
			case s.Confirmed:
				buf.Set(x, y, '*', styleSlotHeld.Bold(true))
			case s.Occupied:
				buf.Set(x, y, '*', styleSlotHeld)
			default:
				buf.Set(x, y, '+', styleSlotFree)
			}
		}
	}
}

// carrierLayer draws carriers, arrows while in flight
type carrierLayer struct{}

// heading picks an arrow from the facing projected onto the view plane
func heading(x, z float64) rune {
	if math.Abs(x) >= math.Abs(z) {
		if x < 0 {
			return '<'
		}
		return '>'
	}
	if z < 0 {
		return 'v'
	}
	return '^'
}

func (carrierLayer) Draw(ctx *Context, buf *Buffer) {
	for _, c := range ctx.Snapshot.Carriers {
		x, y := ctx.Project(c.Position)
		switch c.State {
		case "moving":
			buf.Set(x, y, heading(c.Facing.X, c.Facing.Z), styleMoving)
		case "attached":
			buf.Set(x, y, '@', styleAttached)
		default:
			buf.Set(x, y, 'i', styleIdle)
		}
	}
}

// hudLayer writes the status line on the last row
type hudLayer struct{}

func (hudLayer) Draw(ctx *Context, buf *Buffer) {
	w, h := buf.Bounds()
	if h == 0 {
		return
	}
	y := h - 1
	for x := 0; x < w; x++ {
		buf.Set(x, y, ' ', styleHUD)
	}

	var moving, attached, idle int
	for _, c := range ctx.Snapshot.Carriers {
		switch c.State {
		case "moving":
			moving++
		case "attached":
			attached++
		default:
			idle++
		}
	}

	parts := []string{
		fmt.Sprintf("tick %d", ctx.Snapshot.Tick),
		fmt.Sprintf("cells %d", len(ctx.Snapshot.Cells)),
		fmt.Sprintf("carriers %d/%d/%d", moving, attached, idle),
		fmt.Sprintf("hits %v", ctx.Status["impact.hits"]),
		fmt.Sprintf("destroyed %v", ctx.Status["cell.destroyed"]),
		fmt.Sprintf("retargets %v", ctx.Status["motion.retargets"]),
	}
	if ctx.Muted {
		parts = append(parts, "muted")
	}
	buf.Text(1, y, strings.Join(parts, " | "), styleHUD)
}
