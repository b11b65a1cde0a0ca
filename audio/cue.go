// Package audio synthesizes short cues for engagement events and mixes them for playback.
package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/dockstrike/event"
	"github.com/lixenwraith/dockstrike/vmath"
)

// Cue identifies one synthesized sound
type Cue int

const (
	CueNone Cue = iota
	CueLaunch
	CueRetarget
	CueAbort
	CueArrive
	CueDestroyed
	CueRemoved
)

var cueNames = map[Cue]string{
	CueNone:      "none",
	CueLaunch:    "launch",
	CueRetarget:  "retarget",
	CueAbort:     "abort",
	CueArrive:    "arrive",
	CueDestroyed: "destroyed",
	CueRemoved:   "removed",
}

func (c Cue) String() string {
	if n, ok := cueNames[c]; ok {
		return n
	}
	return "unknown"
}

// CueFor maps an event to its cue; silent events map to CueNone
func CueFor(t event.EventType) Cue {
	switch t {
	case event.EventLaunch:
		return CueLaunch
	case event.EventRetarget:
		return CueRetarget
	case event.EventAbort:
		return CueAbort
	case event.EventArrive:
		return CueArrive
	case event.EventCellDestroyed:
		return CueDestroyed
	case event.EventCellRemoved:
		return CueRemoved
	}
	return CueNone
}

// Cue timings
const (
	launchDuration    = 180 * time.Millisecond
	retargetDuration  = 60 * time.Millisecond
	abortDuration     = 220 * time.Millisecond
	arriveDuration    = 140 * time.Millisecond
	destroyedDuration = 600 * time.Millisecond
	removedDuration   = 300 * time.Millisecond

	cueAttack = 5 * time.Millisecond
)

// Config holds playback settings
type Config struct {
	SampleRate   int
	MasterVolume float64
	Volumes      map[Cue]float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   44100,
		MasterVolume: 0.5,
		Volumes: map[Cue]float64{
			CueLaunch:    0.25,
			CueRetarget:  0.3,
			CueAbort:     0.4,
			CueArrive:    0.6,
			CueDestroyed: 0.9,
			CueRemoved:   0.5,
		},
	}
}

// Synth builds cue streamers; noise is seeded so renders repeat
type Synth struct {
	cfg   Config
	rate  beep.SampleRate
	noise *vmath.FastRand
}

func NewSynth(cfg Config, seed uint64) *Synth {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	return &Synth{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		noise: vmath.NewFastRand(seed),
	}
}

// SampleRate is the rate every cue is rendered at
func (s *Synth) SampleRate() beep.SampleRate {
	return s.rate
}

// Duration returns the nominal length of a cue
func Duration(c Cue) time.Duration {
	switch c {
	case CueLaunch:
		return launchDuration
	case CueRetarget:
		return retargetDuration
	case CueAbort:
		return abortDuration
	case CueArrive:
		return arriveDuration
	case CueDestroyed:
		return destroyedDuration
	case CueRemoved:
		return removedDuration
	}
	return 0
}

// Build renders a cue at its configured volume, nil for CueNone
func (s *Synth) Build(c Cue) beep.Streamer {
	var raw beep.Streamer
	switch c {
	case CueLaunch:
		raw = s.launch()
	case CueRetarget:
		raw = s.retarget()
	case CueAbort:
		raw = s.abort()
	case CueArrive:
		raw = s.arrive()
	case CueDestroyed:
		raw = s.destroyed()
	case CueRemoved:
		raw = s.removed()
	default:
		return nil
	}
	return withVolume(raw, s.cfg.Volumes[c]*s.cfg.MasterVolume)
}

// launch is a rising noise whoosh over a saw glide
func (s *Synth) launch() beep.Streamer {
	d := launchDuration
	noise := newEnvelope(newOscillator(0, d, WaveNoise, s.rate, s.noise), d, cueAttack, d/2, s.rate)
	glide := newEnvelope(newSweep(180, 520, d, WaveSaw, s.rate, nil), d, cueAttack, d/3, s.rate)
	return beep.Mix(withVolume(noise, 0.5), withVolume(glide, 0.3))
}

// retarget is a short square blip
func (s *Synth) retarget() beep.Streamer {
	d := retargetDuration
	return newEnvelope(newOscillator(660, d, WaveSquare, s.rate, nil), d, cueAttack, d/2, s.rate)
}

// abort is a falling buzz
func (s *Synth) abort() beep.Streamer {
	d := abortDuration
	return newEnvelope(newSweep(220, 90, d, WaveSaw, s.rate, nil), d, cueAttack, d/2, s.rate)
}

// arrive is a bell ping with an octave overtone
func (s *Synth) arrive() beep.Streamer {
	d := arriveDuration
	fund := s.tone(1320, d, d-cueAttack)
	over := s.tone(2640, d, d/3)
	return beep.Mix(withVolume(fund, 0.7), withVolume(over, 0.3))
}

// destroyed is a low boom under a noise burst
func (s *Synth) destroyed() beep.Streamer {
	d := destroyedDuration
	boom := newEnvelope(newSweep(110, 40, d, WaveSine, s.rate, nil), d, cueAttack, d*3/4, s.rate)
	burst := newEnvelope(newOscillator(0, d/2, WaveNoise, s.rate, s.noise), d/2, cueAttack, d/3, s.rate)
	return beep.Mix(withVolume(boom, 0.8), withVolume(burst, 0.2))
}

// removed is two descending notes
func (s *Synth) removed() beep.Streamer {
	half := removedDuration / 2
	return beep.Seq(s.tone(880, half, half/2), s.tone(587.33, half, half/2))
}

// tone is a sine from the beep generator, falling back to the local oscillator
func (s *Synth) tone(freq float64, d, release time.Duration) beep.Streamer {
	var src beep.Streamer
	if g, err := generators.SineTone(s.rate, freq); err == nil {
		src = beep.Take(s.rate.N(d), g)
	} else {
		src = newOscillator(freq, d, WaveSine, s.rate, nil)
	}
	return newEnvelope(src, d, cueAttack, release, s.rate)
}
