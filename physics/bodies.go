// Package physics is the reference rigid-body collaborator for cells.
// It integrates damped drift and spin; the engagement core only reads positions and adds impulses.
package physics

import (
	"math"
	"slices"

	"github.com/lixenwraith/dockstrike/parameter"
	"github.com/lixenwraith/dockstrike/vmath"
)

// Body is one cell's rigid-body state
type Body struct {
	CellID   int
	Position vmath.Vec3F
	Velocity vmath.Vec3F
	Radius   float64
	Mass     float64

	// Spin about Axis in radians per second; Heading accumulates it
	Axis    vmath.Vec3F
	Spin    float64
	Heading float64
}

// Bodies holds every cell body, iterated in insertion order
type Bodies struct {
	bodies map[int]*Body
	order  []int

	LinearDamping  float64
	AngularDamping float64
	Restitution    float64
}

func NewBodies() *Bodies {
	return &Bodies{
		bodies:         make(map[int]*Body),
		LinearDamping:  parameter.CellLinearDamping,
		AngularDamping: parameter.CellAngularDamping,
		Restitution:    0.5,
	}
}

// Add registers a resting body; an existing id is replaced in place
func (b *Bodies) Add(cellID int, pos vmath.Vec3F, radius float64) {
	if _, ok := b.bodies[cellID]; !ok {
		b.order = append(b.order, cellID)
	}
	b.bodies[cellID] = &Body{
		CellID:   cellID,
		Position: pos,
		Radius:   radius,
		Mass:     1,
		Axis:     vmath.Up,
	}
}

func (b *Bodies) Remove(cellID int) {
	if _, ok := b.bodies[cellID]; !ok {
		return
	}
	delete(b.bodies, cellID)
	b.order = slices.DeleteFunc(b.order, func(id int) bool { return id == cellID })
}

// Body returns a copy of a body's state
func (b *Bodies) Body(cellID int) (Body, bool) {
	body, ok := b.bodies[cellID]
	if !ok {
		return Body{}, false
	}
	return *body, true
}

func (b *Bodies) Len() int {
	return len(b.order)
}

// CellPosition implements engine.Physics
func (b *Bodies) CellPosition(cellID int) (vmath.Vec3F, bool) {
	body, ok := b.bodies[cellID]
	if !ok {
		return vmath.Vec3F{}, false
	}
	return body.Position, true
}

// ApplyLinearImpulse implements engine.Physics
func (b *Bodies) ApplyLinearImpulse(cellID int, impulse vmath.Vec3F) {
	body, ok := b.bodies[cellID]
	if !ok {
		return
	}
	body.Velocity = vmath.V3FAdd(body.Velocity, vmath.V3FScale(impulse, 1/body.Mass))
}

// ApplyAngularImpulse implements engine.Physics
// Impulses about a different axis replace it; the spin keeps its magnitude sum
func (b *Bodies) ApplyAngularImpulse(cellID int, axis vmath.Vec3F, magnitude float64) {
	body, ok := b.bodies[cellID]
	if !ok {
		return
	}
	dir, err := vmath.V3FDirection(axis)
	if err != nil {
		return
	}
	if vmath.V3FDot(dir, body.Axis) < 0 {
		dir = vmath.V3FScale(dir, -1)
		magnitude = -magnitude
	}
	body.Axis = dir
	body.Spin += magnitude / body.Mass
}

// Step integrates all bodies by dt seconds, then separates overlapping pairs
func (b *Bodies) Step(dt float64) {
	linear := math.Exp(-b.LinearDamping * dt)
	angular := math.Exp(-b.AngularDamping * dt)

	for _, id := range b.order {
		body := b.bodies[id]
		body.Position = vmath.V3FAdd(body.Position, vmath.V3FScale(body.Velocity, dt))
		body.Velocity = vmath.V3FScale(body.Velocity, linear)
		body.Heading = math.Mod(body.Heading+body.Spin*dt, 2*math.Pi)
		body.Spin *= angular
	}

	for i := 0; i < len(b.order); i++ {
		a := b.bodies[b.order[i]]
		for j := i + 1; j < len(b.order); j++ {
			c := b.bodies[b.order[j]]
			if separateOverlap(&a.Position, &c.Position, a.Radius, c.Radius, a.Mass, c.Mass) {
				elasticCollision(&a.Position, &c.Position, &a.Velocity, &c.Velocity, a.Mass, c.Mass, b.Restitution)
			}
		}
	}
}
