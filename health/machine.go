// Package health tracks cell damage, destruction and the visual shrink schedule.
package health

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/dockstrike/component"
	"github.com/lixenwraith/dockstrike/config"
	"github.com/lixenwraith/dockstrike/core"
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/parameter"
	"github.com/lixenwraith/dockstrike/status"
	"github.com/lixenwraith/dockstrike/vmath"
)

var (
	ErrCellNotFound         = errors.New("cell not found")
	ErrCellAlreadyDestroyed = errors.New("cell already destroyed")
	ErrDuplicateCell        = errors.New("duplicate cell id")
	ErrInvalidStage         = errors.New("invalid stage transition")
	ErrInvalidCellID        = errors.New("invalid cell id")
)

// HitOutcome is the result of one registered impact
type HitOutcome struct {
	NewCount      int
	JustDestroyed bool
	Scale         float64
	HasScale      bool // Scale is valid only when the new count hit a threshold
}

// Machine is the single authority over cell hit counts and destruction
type Machine struct {
	world *engine.World
	table []config.ScaleStep
	hits  config.IntRange

	byID map[int]core.Entity

	statScaleMin *status.AtomicFloat
}

func NewMachine(world *engine.World) *Machine {
	cfg := world.Resources.Config
	return &Machine{
		world: world,
		table: cfg.ScaleThresholdTable,
		hits:  cfg.RequiredHitsRange,
		byID:  make(map[int]core.Entity),

		statScaleMin: world.Resources.Status.Floats.Get("cell.scale.min"),
	}
}

// Spawn creates a cell with its hit threshold drawn from the configured range
func (m *Machine) Spawn(cellID int, rng *vmath.FastRand) (core.Entity, error) {
	return m.SpawnWithHits(cellID, rng.IntRange(m.hits.Min, m.hits.Max))
}

// SpawnWithHits creates a cell with an explicit threshold, clamped to at least one
// Negative ids are reserved for the unset target marker
func (m *Machine) SpawnWithHits(cellID, requiredHits int) (core.Entity, error) {
	if cellID < 0 {
		return 0, fmt.Errorf("spawn cell %d: %w", cellID, ErrInvalidCellID)
	}
	if _, exists := m.byID[cellID]; exists {
		return 0, fmt.Errorf("spawn cell %d: %w", cellID, ErrDuplicateCell)
	}
	if requiredHits < 1 {
		requiredHits = 1
	}

	e := m.world.CreateEntity()
	m.world.Cells.SetComponent(e, component.CellComponent{
		CellID:       cellID,
		RequiredHits: requiredHits,
		Stage:        component.StageAlive,
		CurrentScale: 1,
		TargetScale:  1,
	})
	m.byID[cellID] = e
	return e, nil
}

// Lookup resolves a cell id to its entity
func (m *Machine) Lookup(cellID int) (core.Entity, bool) {
	e, ok := m.byID[cellID]
	return e, ok
}

// Cell returns a copy of the cell record
func (m *Machine) Cell(cell core.Entity) (component.CellComponent, bool) {
	if !m.world.Alive(cell) {
		return component.CellComponent{}, false
	}
	return m.world.Cells.GetComponent(cell)
}

// Living reports whether a cell may still be targeted
func (m *Machine) Living(cell core.Entity) bool {
	c, ok := m.Cell(cell)
	return ok && !c.Destroyed && c.Stage == component.StageAlive && !c.Lethal()
}

// RegisterHit applies one impact; destruction is reported exactly once
func (m *Machine) RegisterHit(cell core.Entity) (HitOutcome, error) {
	c, ok := m.Cell(cell)
	if !ok {
		return HitOutcome{}, fmt.Errorf("hit %s: %w", cell, ErrCellNotFound)
	}
	if c.Destroyed {
		return HitOutcome{NewCount: c.HitCount}, fmt.Errorf("hit cell %d: %w", c.CellID, ErrCellAlreadyDestroyed)
	}

	c.HitCount++
	out := HitOutcome{NewCount: c.HitCount}

	if scale, hit := m.ScaleFor(c.HitCount); hit {
		c.TargetScale = scale
		c.Scaling = true
		out.Scale = scale
		out.HasScale = true
	}

	if c.Lethal() {
		c.Destroyed = true
		c.Stage = component.StageDestroying
		out.JustDestroyed = true
	}

	m.world.Cells.SetComponent(cell, c)
	return out, nil
}

// Kill destroys a cell outside the hit path, e.g. an operator command
// Returns false if the cell was already destroyed or unknown
func (m *Machine) Kill(cell core.Entity) bool {
	c, ok := m.Cell(cell)
	if !ok || c.Destroyed {
		return false
	}
	c.Destroyed = true
	c.Stage = component.StageDestroying
	m.world.Cells.SetComponent(cell, c)
	return true
}

// ScaleFor returns the shrink target for an exact threshold hit count
func (m *Machine) ScaleFor(hitCount int) (float64, bool) {
	for _, s := range m.table {
		if s.Hits == hitCount {
			return s.Scale, true
		}
		if s.Hits > hitCount {
			break
		}
	}
	return 0, false
}

// MarkRemoved completes destruction after the deferred cleanup delay
func (m *Machine) MarkRemoved(cell core.Entity) error {
	c, ok := m.Cell(cell)
	if !ok {
		return fmt.Errorf("remove %s: %w", cell, ErrCellNotFound)
	}
	if c.Stage != component.StageDestroying {
		return fmt.Errorf("remove cell %d from %s: %w", c.CellID, c.Stage, ErrInvalidStage)
	}
	c.Stage = component.StageRemoved
	c.Scaling = false
	m.world.Cells.SetComponent(cell, c)
	return nil
}

// Forget drops a removed cell from the id index and frees its entity
func (m *Machine) Forget(cell core.Entity) error {
	c, ok := m.Cell(cell)
	if !ok {
		return fmt.Errorf("forget %s: %w", cell, ErrCellNotFound)
	}
	if c.Stage != component.StageRemoved {
		return fmt.Errorf("forget cell %d in %s: %w", c.CellID, c.Stage, ErrInvalidStage)
	}
	delete(m.byID, c.CellID)
	m.world.DestroyEntity(cell)
	return nil
}

// StepScale eases every shrinking cell toward its target scale
// Publishes the smallest current scale as cell.scale.min, 1 with no cells
func (m *Machine) StepScale(dt float64) {
	step := parameter.ScaleEaseRate * dt
	minScale := 1.0
	for _, e := range m.world.Cells.GetAllEntities() {
		c, ok := m.world.Cells.GetComponent(e)
		if !ok {
			continue
		}
		if c.Scaling {
			c.CurrentScale = vmath.Approach(c.CurrentScale, c.TargetScale, step)
			if c.CurrentScale == c.TargetScale {
				c.Scaling = false
			}
			m.world.Cells.SetComponent(e, c)
		}
		minScale = min(minScale, c.CurrentScale)
	}
	m.statScaleMin.Set(minScale)
}

// ScaleSystem runs StepScale once per tick
type ScaleSystem struct {
	machine *Machine
	world   *engine.World
}

func NewScaleSystem(world *engine.World, machine *Machine) *ScaleSystem {
	return &ScaleSystem{machine: machine, world: world}
}

func (s *ScaleSystem) Name() string  { return "scale" }
func (s *ScaleSystem) Priority() int { return parameter.PriorityScale }

func (s *ScaleSystem) Update() {
	s.machine.StepScale(s.world.Resources.Time.Delta)
}
