package physics

import (
	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/parameter"
)

// System steps the bodies ahead of motion so carriers chase current positions
type System struct {
	world  *engine.World
	bodies *Bodies
}

func NewSystem(world *engine.World, bodies *Bodies) *System {
	return &System{world: world, bodies: bodies}
}

func (s *System) Name() string  { return "physics" }
func (s *System) Priority() int { return parameter.PriorityPhysics }

func (s *System) Update() {
	s.bodies.Step(s.world.Resources.Time.Delta)
}
