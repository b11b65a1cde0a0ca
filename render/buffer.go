package render

import "github.com/gdamore/tcell/v2"

// Cell is one composed terminal position
type Cell struct {
	Rune  rune
	Style tcell.Style
}

var blank = Cell{Rune: ' ', Style: tcell.StyleDefault}

// Buffer composes a frame before it is copied to the screen
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only when capacity is short
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width, b.height = width, height
	b.Clear()
}

// Clear blanks every cell using doubling copies
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = blank
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *Buffer) Bounds() (int, int) {
	return b.width, b.height
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes a cell; out-of-bounds writes are ignored
func (b *Buffer) Set(x, y int, r rune, style tcell.Style) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: style}
}

// Get returns the cell at x,y or a blank outside the buffer
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return blank
	}
	return b.cells[y*b.width+x]
}

// Text writes s left to right, clipped at the buffer edge
func (b *Buffer) Text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= b.width {
			return
		}
		b.Set(x, y, r, style)
		x++
	}
}

// Flush copies the frame to the screen and shows it
func (b *Buffer) Flush(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			screen.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
	screen.Show()
}
