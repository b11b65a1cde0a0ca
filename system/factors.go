package system

import (
	"github.com/lixenwraith/dockstrike/config"
	"github.com/lixenwraith/dockstrike/vmath"
)

// FactorSource supplies per-flight speed and arc variety
type FactorSource interface {
	Draw() (speed, arc float64)
}

// RandomFactors draws uniformly from the configured ranges using the simulation rng
type RandomFactors struct {
	rng   *vmath.FastRand
	speed config.Range
	arc   config.Range
}

func NewRandomFactors(rng *vmath.FastRand, cfg *config.Config) *RandomFactors {
	return &RandomFactors{
		rng:   rng,
		speed: cfg.SpeedFactorRange,
		arc:   cfg.ArcHeightFactorRange,
	}
}

func (f *RandomFactors) Draw() (speed, arc float64) {
	speed = f.rng.Range(f.speed.Min, f.speed.Max)
	arc = f.rng.Range(f.arc.Min, f.arc.Max)
	return speed, arc
}

// FixedFactors returns the same pair every draw
type FixedFactors struct {
	Speed float64
	Arc   float64
}

func (f FixedFactors) Draw() (speed, arc float64) {
	return f.Speed, f.Arc
}
