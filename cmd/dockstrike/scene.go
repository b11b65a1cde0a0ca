package main

import (
	"math"

	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/sim"
	"github.com/lixenwraith/dockstrike/vmath"
)

// sceneRing is the distance from the launch line to the cell ring center
const sceneRing = 12.0

// seedScene places cells on a ring ahead of a line of carriers
func seedScene(s *sim.Session, cells, carriers int) error {
	radius := sceneRing / 2
	for i := 0; i < cells; i++ {
		a := 2 * math.Pi * float64(i) / float64(max(cells, 1))
		pos := vmath.Vec3F{
			X: radius * math.Cos(a),
			Y: 0,
			Z: sceneRing + radius*math.Sin(a),
		}
		if _, err := s.SpawnCell(i+1, pos); err != nil {
			return err
		}
	}

	spacing := 1.5
	start := -spacing * float64(carriers-1) / 2
	for i := 0; i < carriers; i++ {
		s.SpawnCarrier(vmath.Vec3F{X: start + spacing*float64(i)})
	}
	return nil
}

// autoLauncher relaunches idle carriers every interval ticks
func autoLauncher(s *sim.Session, interval int64) sim.Sink {
	if interval < 1 {
		interval = 1
	}
	return sim.SinkFunc(func(tick int64, _ []event.GameEvent) {
		if tick%interval == 0 {
			s.LaunchIdle()
		}
	})
}
