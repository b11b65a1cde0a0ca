package render

import (
	"math"

	"github.com/lixenwraith/dockstrike/sim"
	"github.com/lixenwraith/dockstrike/vmath"
)

// Terminal cells are about twice as tall as they are wide
const cellAspect = 2.0

// viewMargin pads the fitted world bounds
const viewMargin = 1.5

// Context is the per-frame state handed to every layer
type Context struct {
	Snapshot sim.Snapshot
	Status   map[string]any
	Muted    bool

	Width, Height int // drawable area above the HUD
	view          projection
}

// projection maps world X/Z onto screen columns/rows, looking down the Y axis
type projection struct {
	minX, maxZ float64
	scale      float64 // columns per world unit
}

// fit chooses a projection that frames every cell and carrier
func fit(snap sim.Snapshot, width, height int) projection {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	grow := func(p vmath.Vec3F, r float64) {
		minX, maxX = math.Min(minX, p.X-r), math.Max(maxX, p.X+r)
		minZ, maxZ = math.Min(minZ, p.Z-r), math.Max(maxZ, p.Z+r)
	}
	for _, c := range snap.Cells {
		grow(c.Position, c.Radius)
	}
	for _, c := range snap.Carriers {
		grow(c.Position, 0)
	}
	if math.IsInf(minX, 1) {
		minX, maxX, minZ, maxZ = -1, 1, -1, 1
	}
	minX, maxX = minX-viewMargin, maxX+viewMargin
	minZ, maxZ = minZ-viewMargin, maxZ+viewMargin

	sx := float64(max(width-1, 1)) / (maxX - minX)
	sz := float64(max(height-1, 1)) * cellAspect / (maxZ - minZ)
	scale := math.Min(sx, sz)

	// Center the shorter axis
	spanX := float64(max(width-1, 1)) / scale
	spanZ := float64(max(height-1, 1)) * cellAspect / scale
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	return projection{minX: cx - spanX/2, maxZ: cz + spanZ/2, scale: scale}
}

// Project returns the screen column and row for a world point
func (c *Context) Project(p vmath.Vec3F) (int, int) {
	x := (p.X - c.view.minX) * c.view.scale
	y := (c.view.maxZ - p.Z) * c.view.scale / cellAspect
	return int(math.Round(x)), int(math.Round(y))
}

// Columns converts a world length to screen columns
func (c *Context) Columns(d float64) float64 {
	return d * c.view.scale
}
