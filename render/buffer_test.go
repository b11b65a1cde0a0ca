package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestBufferSetGet(t *testing.T) {
	b := NewBuffer(4, 3)
	b.Set(1, 2, 'x', tcell.StyleDefault.Bold(true))
	b.Set(9, 9, 'y', tcell.StyleDefault)

	if got := b.Get(1, 2); got.Rune != 'x' {
		t.Errorf("Get(1,2) = %q, want 'x'", got.Rune)
	}
	if got := b.Get(9, 9); got != blank {
		t.Errorf("out of bounds should read blank, got %+v", got)
	}

	b.Clear()
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if b.Get(x, y) != blank {
				t.Fatalf("cell %d,%d not cleared", x, y)
			}
		}
	}
}

func TestBufferTextClips(t *testing.T) {
	b := NewBuffer(5, 1)
	b.Text(2, 0, "abcdef", tcell.StyleDefault)
	want := "  abc"
	for x, r := range want {
		if got := b.Get(x, 0).Rune; got != r {
			t.Errorf("col %d = %q, want %q", x, got, r)
		}
	}
}

func TestBufferResizeReuses(t *testing.T) {
	b := NewBuffer(10, 10)
	b.Set(0, 0, 'z', tcell.StyleDefault)
	b.Resize(3, 3)
	if w, h := b.Bounds(); w != 3 || h != 3 {
		t.Fatalf("bounds %dx%d, want 3x3", w, h)
	}
	if b.Get(0, 0) != blank {
		t.Error("resize should clear")
	}
	b.Resize(-1, 2)
	if w, h := b.Bounds(); w != 0 || h != 2 {
		t.Errorf("negative width should clamp, got %dx%d", w, h)
	}
}
