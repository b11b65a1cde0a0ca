package audio

import (
	"testing"

	"github.com/lixenwraith/dockstrike/event"
)

func testSynth(seed uint64) *Synth {
	cfg := DefaultConfig()
	cfg.SampleRate = int(testRate)
	cfg.MasterVolume = 1
	return NewSynth(cfg, seed)
}

func TestCueFor(t *testing.T) {
	tests := []struct {
		ev   event.EventType
		want Cue
	}{
		{event.EventLaunch, CueLaunch},
		{event.EventRetarget, CueRetarget},
		{event.EventAbort, CueAbort},
		{event.EventArrive, CueArrive},
		{event.EventCellDestroyed, CueDestroyed},
		{event.EventCellRemoved, CueRemoved},
		{event.EventSlotConfirmed, CueNone},
		{event.EventCellScale, CueNone},
		{event.EventAttachSettled, CueNone},
	}
	for _, tt := range tests {
		if got := CueFor(tt.ev); got != tt.want {
			t.Errorf("CueFor(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestCuesAreFiniteAndAudible(t *testing.T) {
	synth := testSynth(3)
	for c := CueLaunch; c <= CueRemoved; c++ {
		t.Run(c.String(), func(t *testing.T) {
			limit := testRate.N(Duration(c)) + 1024
			samples := drain(t, synth.Build(c), limit)
			if len(samples) == 0 {
				t.Fatal("cue produced no samples")
			}
			p := peak(samples)
			if p < 0.01 {
				t.Errorf("cue is silent, peak %v", p)
			}
			if p > 1 {
				t.Errorf("cue clips, peak %v", p)
			}
		})
	}
}

func TestBuildNone(t *testing.T) {
	if s := testSynth(1).Build(CueNone); s != nil {
		t.Error("CueNone should not build a streamer")
	}
}

func TestCueRenderRepeats(t *testing.T) {
	limit := testRate.N(Duration(CueLaunch)) + 1024
	a := drain(t, testSynth(11).Build(CueLaunch), limit)
	b := drain(t, testSynth(11).Build(CueLaunch), limit)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
