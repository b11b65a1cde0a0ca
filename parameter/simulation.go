package parameter

import "time"

// Tick
const (
	// TickRate is simulation ticks per second
	TickRate = 60

	// TickInterval is wall-clock duration of one tick in real-time mode
	TickInterval = time.Second / TickRate
)

// Carrier flight
const (
	// BaseCycleDurationTicks is the baseline flight time before speed scaling (~2s at 60Hz)
	BaseCycleDurationTicks = 120

	// SpeedFactorMin is the lower bound of the per-launch speed multiplier
	SpeedFactorMin = 1.2

	// SpeedFactorMax is the upper bound of the per-launch speed multiplier
	SpeedFactorMax = 3.0

	// DefaultSpeedFactor is the midpoint of the speed range
	DefaultSpeedFactor = (SpeedFactorMin + SpeedFactorMax) / 2

	// ArcHeightFactorMin is the lower bound of the per-launch arc multiplier
	ArcHeightFactorMin = 0.6

	// ArcHeightFactorMax is the upper bound of the per-launch arc multiplier
	ArcHeightFactorMax = 1.2

	// DefaultArcHeightFactor is the midpoint of the arc range
	DefaultArcHeightFactor = (ArcHeightFactorMin + ArcHeightFactorMax) / 2

	// AccelerationPhaseFraction is the share of progress spent ramping up
	AccelerationPhaseFraction = 0.2

	// DecelerationPhaseFraction is the share of progress spent ramping down
	DecelerationPhaseFraction = 0.2

	// MinSpeedMultiplier is the floor of the phase speed ramp
	MinSpeedMultiplier = 0.4
)

// Cells
const (
	// RequiredHitsMin is the lower bound of hits needed to destroy a cell
	RequiredHitsMin = 7

	// RequiredHitsMax is the upper bound of hits needed to destroy a cell
	RequiredHitsMax = 18

	// SlotsPerCell is the number of attachment slots created per cell
	SlotsPerCell = 24

	// CellRadius is the distance of slots from the cell center
	CellRadius = 1.0

	// ScaleEaseRate is scale units per second the visual shrink moves toward its target
	ScaleEaseRate = 0.5
)

// ScaleStep maps an exact hit count to a visual scale
type ScaleStep struct {
	Hits  int
	Scale float64
}

// ScaleThresholds is the default shrink schedule
var ScaleThresholds = []ScaleStep{
	{Hits: 1, Scale: 0.95},
	{Hits: 3, Scale: 0.9},
	{Hits: 6, Scale: 0.85},
	{Hits: 9, Scale: 0.8},
	{Hits: 12, Scale: 0.75},
	{Hits: 15, Scale: 0.7},
}

// Impact
const (
	// ImpactLinearImpulse is the velocity change applied to a cell per hit
	ImpactLinearImpulse = 0.35

	// ImpactAngularImpulse is the angular velocity change about +Y per hit (rad/s)
	ImpactAngularImpulse = 0.8
)

// Deferred effects
const (
	// DestroyDelayTicks is the time between destruction start and cell removal (~2.5s)
	DestroyDelayTicks = 150

	// AttachBounceTicks is the attach scale-bounce duration
	AttachBounceTicks = 12
)

// Reference physics collaborator
const (
	// CellLinearDamping is the exponential decay rate of cell drift per second
	CellLinearDamping = 0.35

	// CellAngularDamping is the exponential decay rate of cell spin per second
	CellAngularDamping = 0.25
)

// Event queue
const (
	// EventQueueSize is the fixed capacity of the outbound event ring
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for ring indexing (1024 - 1)
	EventBufferMask = EventQueueSize - 1
)

// Priorities, lower runs first
const (
	PriorityPhysics = 10
	PriorityMotion  = 100
	PriorityScale   = 200
	PriorityTimer   = 300 // Deferred effects fire after the tick's state settles
)
