package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dockstrike/config"
	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/health"
	"github.com/lixenwraith/dockstrike/parameter"
	"github.com/lixenwraith/dockstrike/system"
	"github.com/lixenwraith/dockstrike/vmath"
)

func fixedFactors() system.FactorSource {
	return system.FixedFactors{Speed: parameter.DefaultSpeedFactor, Arc: parameter.DefaultArcHeightFactor}
}

func newSession(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	s, err := New(Options{Config: cfg, Seed: 42, Factors: fixedFactors()})
	require.NoError(t, err)
	return s
}

// runUntil ticks until an event of type want appears, returning all events seen
func runUntil(s *Session, want event.EventType, max int) ([]event.GameEvent, bool) {
	var all []event.GameEvent
	for i := 0; i < max; i++ {
		batch := s.Tick()
		all = append(all, batch...)
		for _, ev := range batch {
			if ev.Type == want {
				return all, true
			}
		}
	}
	return all, false
}

func countType(events []event.GameEvent, t event.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.SlotsPerCell = 0
	_, err := New(Options{Config: cfg})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestSpawnCell(t *testing.T) {
	s := newSession(t, nil)

	_, err := s.SpawnCell(1, vmath.Vec3F{Z: 5}, WithSlots(6), WithRequiredHits(3))
	require.NoError(t, err)

	_, err = s.SpawnCell(1, vmath.Vec3F{})
	assert.ErrorIs(t, err, health.ErrDuplicateCell)

	_, err = s.SpawnCell(-1, vmath.Vec3F{X: 3})
	assert.ErrorIs(t, err, health.ErrInvalidCellID)

	snap := s.Snapshot()
	require.Len(t, snap.Cells, 1)
	cell := snap.Cells[0]
	assert.Equal(t, 3, cell.RequiredHits)
	assert.Len(t, cell.Slots, 6)
	for _, slot := range cell.Slots {
		d := vmath.V3FDist(slot.Position, vmath.Vec3F{Z: 5})
		assert.InDelta(t, s.Config().CellRadius, d, 1e-9, "slot should sit on the cell surface")
	}

	_, err = s.SpawnCell(2, vmath.Vec3F{X: 5})
	require.NoError(t, err)
	snap = s.Snapshot()
	require.Len(t, snap.Cells, 2)
	assert.Len(t, snap.Cells[1].Slots, parameter.SlotsPerCell)
	assert.GreaterOrEqual(t, snap.Cells[1].RequiredHits, parameter.RequiredHitsMin)
	assert.LessOrEqual(t, snap.Cells[1].RequiredHits, parameter.RequiredHitsMax)
}

func TestSnapshotEmptyFieldHasEmptyLists(t *testing.T) {
	s := newSession(t, nil)
	snap := s.Snapshot()
	assert.NotNil(t, snap.Cells)
	assert.NotNil(t, snap.Carriers)
	assert.Empty(t, snap.Cells)
	assert.Empty(t, snap.Carriers)

	s.SpawnCarrier(vmath.Vec3F{})
	assert.Len(t, s.Snapshot().Carriers, 1)
}

func TestEngagementToRemoval(t *testing.T) {
	cfg := config.Default()
	cfg.DestroyDelayTicks = 10
	cfg.AttachBounceTicks = 20
	s := newSession(t, cfg)

	_, err := s.SpawnCell(1, vmath.Vec3F{Z: 10}, WithSlots(4), WithRequiredHits(2))
	require.NoError(t, err)

	a := s.SpawnCarrier(vmath.Vec3F{})
	b := s.SpawnCarrier(vmath.Vec3F{})
	_, err = s.Launch(a, vmath.Vec3F{})
	require.NoError(t, err)
	_, err = s.Launch(b, vmath.Vec3F{})
	require.NoError(t, err)

	events, ok := runUntil(s, event.EventCellDestroyed, 200)
	require.True(t, ok, "cell should be destroyed")
	assert.Equal(t, 2, countType(events, event.EventArrive))
	assert.Equal(t, 2, countType(events, event.EventSlotConfirmed))
	assert.Equal(t, 2, countType(events, event.EventLaunch))

	status := s.Status()
	assert.Equal(t, int64(2), status["impact.hits"])
	assert.Equal(t, int64(1), status["cell.destroyed"])

	more, ok := runUntil(s, event.EventCellRemoved, cfg.DestroyDelayTicks+5)
	require.True(t, ok, "cell should be removed after the cleanup delay")
	assert.Equal(t, 0, countType(more, event.EventCellDestroyed), "destruction is reported once")
	assert.Equal(t, 0, countType(more, event.EventAttachSettled), "pending settles are cancelled with the cell")

	snap := s.Snapshot()
	assert.Empty(t, snap.Cells)
	require.Len(t, snap.Carriers, 2)
	for _, c := range snap.Carriers {
		assert.Equal(t, "idle", c.State)
	}

	// Idle carriers find nothing until a new cell appears
	assert.Equal(t, 0, s.LaunchIdle())
	_, err = s.SpawnCell(2, vmath.Vec3F{X: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, s.LaunchIdle())
}

func TestAttachSettlesAfterBounce(t *testing.T) {
	cfg := config.Default()
	cfg.AttachBounceTicks = 5
	s := newSession(t, cfg)

	_, err := s.SpawnCell(1, vmath.Vec3F{Z: 4}, WithRequiredHits(10))
	require.NoError(t, err)
	c := s.SpawnCarrier(vmath.Vec3F{})
	_, err = s.Launch(c, vmath.Vec3F{})
	require.NoError(t, err)

	events, ok := runUntil(s, event.EventSlotConfirmed, 200)
	require.True(t, ok)
	var confirmTick int64
	for _, ev := range events {
		if ev.Type == event.EventSlotConfirmed {
			confirmTick = ev.Tick
		}
	}

	settled, ok := runUntil(s, event.EventAttachSettled, 20)
	require.True(t, ok)
	last := settled[len(settled)-1]
	assert.Equal(t, confirmTick+1+int64(cfg.AttachBounceTicks), last.Tick)
	p, ok := last.Payload.(*event.SlotConfirmedPayload)
	require.True(t, ok)
	assert.Equal(t, c, p.Carrier)
}

func TestDestroyCell(t *testing.T) {
	s := newSession(t, nil)
	_, err := s.SpawnCell(7, vmath.Vec3F{})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DestroyCell(99), ErrCellNotFound)
	require.NoError(t, s.DestroyCell(7))
	assert.ErrorIs(t, s.DestroyCell(7), health.ErrCellAlreadyDestroyed)

	batch := s.Tick()
	require.Equal(t, 1, countType(batch, event.EventCellDestroyed))
	p := batch[0].Payload.(*event.CellPayload)
	assert.Equal(t, 7, p.CellID)

	snap := s.Snapshot()
	require.Len(t, snap.Cells, 1)
	assert.Equal(t, "destroying", snap.Cells[0].Stage)
}

func TestSubscribeReceivesBatches(t *testing.T) {
	s := newSession(t, nil)

	var ticks []int64
	s.Subscribe(SinkFunc(func(tick int64, events []event.GameEvent) {
		ticks = append(ticks, tick)
		// Sinks run outside the lock
		_ = s.Snapshot()
	}))

	for i := 0; i < 3; i++ {
		s.Tick()
	}
	assert.Equal(t, []int64{0, 1, 2}, ticks)
	assert.Equal(t, int64(3), s.CurrentTick())
	assert.Equal(t, int64(3), s.Status()["tick.count"])
}

func TestSessionDeterministic(t *testing.T) {
	run := func() ([]event.EventType, Snapshot) {
		s, err := New(Options{Seed: 9})
		require.NoError(t, err)
		for id := 0; id < 3; id++ {
			_, err := s.SpawnCell(id, vmath.Vec3F{X: float64(id) * 4, Z: 8}, WithSlots(3))
			require.NoError(t, err)
		}
		for i := 0; i < 6; i++ {
			s.SpawnCarrier(vmath.Vec3F{X: float64(i)})
		}
		var types []event.EventType
		for i := 0; i < 400; i++ {
			if i%30 == 0 {
				s.LaunchIdle()
			}
			for _, ev := range s.Tick() {
				types = append(types, ev.Type)
			}
		}
		return types, s.Snapshot()
	}

	typesA, snapA := run()
	typesB, snapB := run()
	assert.NotEmpty(t, typesA)
	assert.Equal(t, typesA, typesB)
	assert.Equal(t, snapA.Carriers, snapB.Carriers)
	assert.Equal(t, snapA.Cells, snapB.Cells)
	assert.NotEqual(t, snapA.Session, snapB.Session, "session ids are unique")
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newSession(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Equal(t, false, s.Status()["session.running"])

	seen := make(chan any, 1)
	s.Subscribe(SinkFunc(func(int64, []event.GameEvent) {
		select {
		case seen <- s.Status()["session.running"]:
		default:
		}
	}))

	err := s.Run(ctx)
	require.NoError(t, err)
	assert.Positive(t, s.CurrentTick())
	assert.Equal(t, true, <-seen, "running while ticking")
	assert.Equal(t, false, s.Status()["session.running"])
}

func TestTickCountsDroppedEventsUnderConcurrentProducers(t *testing.T) {
	s := newSession(t, nil)
	flood := func() {
		s.world.RunSafe(func() {
			for i := 0; i < parameter.EventQueueSize+76; i++ {
				s.world.PushEvent(event.EventCellDestroyed, nil)
			}
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			flood()
		}
	}()
	for i := 0; i < 20; i++ {
		s.Tick()
	}
	<-done

	flood()
	s.Tick()
	dropped, ok := s.Status()["event.dropped"].(int64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, dropped, int64(76))
}
