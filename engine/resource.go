package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/dockstrike/config"
	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/status"
	"github.com/lixenwraith/dockstrike/vmath"
)

// TimeResource is the simulated clock, advanced once per tick
type TimeResource struct {
	Tick  int64   // Ticks completed before the current one
	Delta float64 // Seconds per tick
}

// Resources are shared, explicitly owned dependencies of one simulation
type Resources struct {
	Time   TimeResource
	Config *config.Config
	Events *event.EventQueue
	Status *status.Registry
	Rng    *vmath.FastRand
	Logger *log.Logger
}

// NewResources builds resources for a config and seed
// A nil logger discards output
func NewResources(cfg *config.Config, seed uint64, logger *log.Logger) *Resources {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resources{
		Time:   TimeResource{Delta: cfg.TickSeconds()},
		Config: cfg,
		Events: event.NewEventQueue(),
		Status: status.NewRegistry(),
		Rng:    vmath.NewFastRand(seed),
		Logger: logger,
	}
}
