package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/dockstrike/vmath"
)

// Wave selects an oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator renders a fixed-length wave with an optional linear pitch glide
type oscillator struct {
	from, to float64
	phase    float64
	length   int
	pos      int
	wave     Wave
	rate     beep.SampleRate
	noise    *vmath.FastRand
}

// newOscillator holds freq for the whole duration
func newOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate, noise *vmath.FastRand) *oscillator {
	return newSweep(freq, freq, d, wave, rate, noise)
}

// newSweep glides linearly from one frequency to another
func newSweep(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate, noise *vmath.FastRand) *oscillator {
	if noise == nil {
		noise = vmath.NewFastRand(1)
	}
	return &oscillator{
		from:   from,
		to:     to,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		noise:  noise,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.pos >= o.length {
		return 0, false
	}
	for i := range samples {
		if o.pos >= o.length {
			return i, true
		}

		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2*o.phase - 1
		case WaveNoise:
			v = o.noise.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		t := float64(o.pos) / float64(o.length)
		freq := o.from + (o.to-o.from)*t
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream with a linear attack and release and cuts it at total
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

func newEnvelope(s beep.Streamer, total, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		s:       s,
		attack:  rate.N(attack),
		release: rate.N(release),
		total:   rate.N(total),
	}
}

func (e *envelope) gain() float64 {
	g := 1.0
	if e.attack > 0 && e.pos < e.attack {
		g = float64(e.pos) / float64(e.attack)
	}
	if left := e.total - e.pos; e.release > 0 && left < e.release {
		g = math.Min(g, float64(left)/float64(e.release))
	}
	return g
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rest := e.total - e.pos; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain()
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume applies a linear volume; zero or less is silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
