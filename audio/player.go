package audio

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/lixenwraith/dockstrike/event"
)

// MaxVoices caps concurrent cues in the mixer
const MaxVoices = 16

// Player turns event batches into cues on a shared mixer
// It is a session sink; the mixer is read by the output device
type Player struct {
	synth  *Synth
	logger *log.Logger
	mixer  *beep.Mixer

	mu           sync.Mutex
	lock, unlock func()

	muted   atomic.Bool
	played  [CueRemoved + 1]atomic.Uint64
	dropped atomic.Uint64
}

func NewPlayer(synth *Synth, logger *log.Logger) *Player {
	return &Player{
		synth:  synth,
		logger: logger,
		mixer:  &beep.Mixer{},
		lock:   func() {},
		unlock: func() {},
	}
}

// SetLocker installs the output device's lock around mixer mutation
func (p *Player) SetLocker(lock, unlock func()) {
	p.mu.Lock()
	p.lock, p.unlock = lock, unlock
	p.mu.Unlock()
}

// Mixer is the stream handed to the output device
func (p *Player) Mixer() beep.Streamer {
	return p.mixer
}

func (p *Player) SetMuted(m bool) {
	p.muted.Store(m)
}

func (p *Player) Muted() bool {
	return p.muted.Load()
}

// Played returns how many times a cue was queued
func (p *Player) Played(c Cue) uint64 {
	if c <= CueNone || int(c) >= len(p.played) {
		return 0
	}
	return p.played[c].Load()
}

// Dropped returns cues skipped because all voices were busy
func (p *Player) Dropped() uint64 {
	return p.dropped.Load()
}

// Voices returns cues currently in the mixer
func (p *Player) Voices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	defer p.unlock()
	return p.mixer.Len()
}

// HandleEvents implements sim.Sink
// Each cue plays at most once per batch so a volley does not clip
func (p *Player) HandleEvents(tick int64, events []event.GameEvent) {
	if p.muted.Load() || len(events) == 0 {
		return
	}

	var seen [CueRemoved + 1]bool
	var queue []beep.Streamer
	var cues []Cue
	for _, ev := range events {
		c := CueFor(ev.Type)
		if c == CueNone || seen[c] {
			continue
		}
		seen[c] = true
		if s := p.synth.Build(c); s != nil {
			queue = append(queue, s)
			cues = append(cues, c)
		}
	}
	if len(queue) == 0 {
		return
	}

	p.mu.Lock()
	p.lock()
	free := MaxVoices - p.mixer.Len()
	if free < len(queue) {
		if free < 0 {
			free = 0
		}
		p.dropped.Add(uint64(len(queue) - free))
		queue = queue[:free]
		cues = cues[:free]
	}
	if len(queue) > 0 {
		p.mixer.Add(queue...)
	}
	p.unlock()
	p.mu.Unlock()

	for _, c := range cues {
		p.played[c].Add(1)
	}
	if len(cues) > 0 {
		p.logger.Debug("cues queued", "tick", tick, "count", len(cues))
	}
}
