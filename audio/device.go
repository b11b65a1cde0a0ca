package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/speaker"
)

// deviceBuffer trades latency for underrun safety
const deviceBuffer = 100 * time.Millisecond

// Open starts the default output device and routes the player's mixer to it
func Open(p *Player) error {
	rate := p.synth.SampleRate()
	if err := speaker.Init(rate, rate.N(deviceBuffer)); err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	p.SetLocker(speaker.Lock, speaker.Unlock)
	speaker.Play(p.Mixer())
	return nil
}

// Close stops the output device
func Close(p *Player) {
	p.SetLocker(func() {}, func() {})
	speaker.Clear()
	speaker.Close()
}
