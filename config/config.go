// Package config holds the startup-fixed simulation tunables.
package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lixenwraith/dockstrike/parameter"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Range is a closed float interval
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// IntRange is a closed integer interval
type IntRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// ScaleStep is one row of the shrink schedule
type ScaleStep struct {
	Hits  int     `yaml:"hits" json:"hits"`
	Scale float64 `yaml:"scale" json:"scale"`
}

// Config is immutable after Load/Default returns
type Config struct {
	TickRate int `yaml:"tick_rate" json:"tick_rate"`

	BaseCycleDurationTicks    int     `yaml:"base_cycle_duration_ticks" json:"base_cycle_duration_ticks"`
	SpeedFactorRange          Range   `yaml:"speed_factor_range" json:"speed_factor_range"`
	ArcHeightFactorRange      Range   `yaml:"arc_height_factor_range" json:"arc_height_factor_range"`
	AccelerationPhaseFraction float64 `yaml:"acceleration_phase_fraction" json:"acceleration_phase_fraction"`
	DecelerationPhaseFraction float64 `yaml:"deceleration_phase_fraction" json:"deceleration_phase_fraction"`
	MinSpeedMultiplier        float64 `yaml:"min_speed_multiplier" json:"min_speed_multiplier"`

	RequiredHitsRange   IntRange    `yaml:"required_hits_range" json:"required_hits_range"`
	ScaleThresholdTable []ScaleStep `yaml:"scale_threshold_table" json:"scale_threshold_table"`
	SlotsPerCell        int         `yaml:"slots_per_cell" json:"slots_per_cell"`
	CellRadius          float64     `yaml:"cell_radius" json:"cell_radius"`

	ImpactLinearImpulseMagnitude  float64 `yaml:"impact_linear_impulse_magnitude" json:"impact_linear_impulse_magnitude"`
	ImpactAngularImpulseMagnitude float64 `yaml:"impact_angular_impulse_magnitude" json:"impact_angular_impulse_magnitude"`

	DestroyDelayTicks int `yaml:"destroy_delay" json:"destroy_delay"`
	AttachBounceTicks int `yaml:"attach_bounce_delay" json:"attach_bounce_delay"`
}

// Default returns the built-in tunables
func Default() *Config {
	table := make([]ScaleStep, len(parameter.ScaleThresholds))
	for i, s := range parameter.ScaleThresholds {
		table[i] = ScaleStep{Hits: s.Hits, Scale: s.Scale}
	}

	return &Config{
		TickRate:                  parameter.TickRate,
		BaseCycleDurationTicks:    parameter.BaseCycleDurationTicks,
		SpeedFactorRange:          Range{Min: parameter.SpeedFactorMin, Max: parameter.SpeedFactorMax},
		ArcHeightFactorRange:      Range{Min: parameter.ArcHeightFactorMin, Max: parameter.ArcHeightFactorMax},
		AccelerationPhaseFraction: parameter.AccelerationPhaseFraction,
		DecelerationPhaseFraction: parameter.DecelerationPhaseFraction,
		MinSpeedMultiplier:        parameter.MinSpeedMultiplier,

		RequiredHitsRange:   IntRange{Min: parameter.RequiredHitsMin, Max: parameter.RequiredHitsMax},
		ScaleThresholdTable: table,
		SlotsPerCell:        parameter.SlotsPerCell,
		CellRadius:          parameter.CellRadius,

		ImpactLinearImpulseMagnitude:  parameter.ImpactLinearImpulse,
		ImpactAngularImpulseMagnitude: parameter.ImpactAngularImpulse,

		DestroyDelayTicks: parameter.DestroyDelayTicks,
		AttachBounceTicks: parameter.AttachBounceTicks,
	}
}

// TickSeconds is the simulated duration of one tick
func (c *Config) TickSeconds() float64 {
	return 1 / float64(c.TickRate)
}

// BaseCycleSeconds is the baseline flight time before speed scaling
func (c *Config) BaseCycleSeconds() float64 {
	return float64(c.BaseCycleDurationTicks) * c.TickSeconds()
}

func validPhase(f float64) bool {
	return f > 0 && f <= 0.5
}

// Validate enforces semantic constraints the schema cannot express
func (c *Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalid)
	case c.BaseCycleDurationTicks <= 0:
		return fmt.Errorf("%w: base_cycle_duration_ticks must be positive", ErrInvalid)
	case c.SpeedFactorRange.Min <= 0 || c.SpeedFactorRange.Min > c.SpeedFactorRange.Max:
		return fmt.Errorf("%w: speed_factor_range [%g, %g]", ErrInvalid, c.SpeedFactorRange.Min, c.SpeedFactorRange.Max)
	case c.ArcHeightFactorRange.Min < 0 || c.ArcHeightFactorRange.Min > c.ArcHeightFactorRange.Max:
		return fmt.Errorf("%w: arc_height_factor_range [%g, %g]", ErrInvalid, c.ArcHeightFactorRange.Min, c.ArcHeightFactorRange.Max)
	case !validPhase(c.AccelerationPhaseFraction) || !validPhase(c.DecelerationPhaseFraction):
		return fmt.Errorf("%w: phase fractions %g, %g outside (0,0.5]", ErrInvalid, c.AccelerationPhaseFraction, c.DecelerationPhaseFraction)
	case c.MinSpeedMultiplier <= 0 || c.MinSpeedMultiplier > 1:
		return fmt.Errorf("%w: min_speed_multiplier %g outside (0,1]", ErrInvalid, c.MinSpeedMultiplier)
	case c.RequiredHitsRange.Min < 1 || c.RequiredHitsRange.Min > c.RequiredHitsRange.Max:
		return fmt.Errorf("%w: required_hits_range [%d, %d]", ErrInvalid, c.RequiredHitsRange.Min, c.RequiredHitsRange.Max)
	case c.SlotsPerCell < 1:
		return fmt.Errorf("%w: slots_per_cell must be positive", ErrInvalid)
	case c.CellRadius < 0:
		return fmt.Errorf("%w: cell_radius must not be negative", ErrInvalid)
	case c.ImpactLinearImpulseMagnitude < 0 || c.ImpactAngularImpulseMagnitude < 0:
		return fmt.Errorf("%w: impulse magnitudes must not be negative", ErrInvalid)
	case c.DestroyDelayTicks < 0 || c.AttachBounceTicks < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalid)
	}

	if !sort.SliceIsSorted(c.ScaleThresholdTable, func(i, j int) bool {
		return c.ScaleThresholdTable[i].Hits < c.ScaleThresholdTable[j].Hits
	}) {
		return fmt.Errorf("%w: scale_threshold_table must be sorted by hits", ErrInvalid)
	}
	seen := make(map[int]struct{}, len(c.ScaleThresholdTable))
	for _, s := range c.ScaleThresholdTable {
		if _, dup := seen[s.Hits]; dup {
			return fmt.Errorf("%w: duplicate scale threshold at %d hits", ErrInvalid, s.Hits)
		}
		seen[s.Hits] = struct{}{}
		if s.Scale <= 0 {
			return fmt.Errorf("%w: scale at %d hits must be positive", ErrInvalid, s.Hits)
		}
	}
	return nil
}
