package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Cell is one composited terminal cell
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
	Bold bool
	cont bool // Trailing half of a wide rune
}

// RenderBuffer is a compositor backed by a Cell array
// Frames are drawn here first and flushed to the screen in one pass
type RenderBuffer struct {
	cells  []Cell
	width  int
	height int
	bg     RGB
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int, bg RGB) *RenderBuffer {
	b := &RenderBuffer{bg: bg}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	size := max(width, 0) * max(height, 0)
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear(b.bg)
}

// Size returns the buffer dimensions
func (b *RenderBuffer) Size() (int, int) {
	return b.width, b.height
}

// Clear resets all cells to blank on bg using exponential copy
func (b *RenderBuffer) Clear(bg RGB) {
	b.bg = bg
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Fg: bg, Bg: bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// inBounds returns true if in screen bounds
func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at (x, y); out of bounds yields a blank cell
func (b *RenderBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{Rune: ' ', Fg: b.bg, Bg: b.bg}
	}
	return b.cells[y*b.width+x]
}

// Set replaces the rune and both colors
func (b *RenderBuffer) Set(x, y int, r rune, fg, bg RGB) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Fg: fg, Bg: bg}
}

// SetFgOnly draws a glyph over the existing background
func (b *RenderBuffer) SetFgOnly(x, y int, r rune, fg RGB) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Rune = r
	c.Fg = fg
	c.Bold = false
	c.cont = false
}

// SetBgOnly paints the background and clears the glyph
func (b *RenderBuffer) SetBgOnly(x, y int, bg RGB) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: ' ', Fg: bg, Bg: bg}
}

// BlendBg mixes src into the existing background, keeping the glyph
func (b *RenderBuffer) BlendBg(x, y int, src RGB, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Bg = Blend(c.Bg, src, alpha)
	if c.Rune == ' ' {
		c.Fg = c.Bg
	}
}

// SetBold toggles the bold attribute of a cell
func (b *RenderBuffer) SetBold(x, y int, bold bool) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x].Bold = bold
}

// SetString writes s starting at (x, y) and returns the column after the last rune
// Wide runes occupy two cells; anything past the right edge is dropped
func (b *RenderBuffer) SetString(x, y int, s string, fg, bg RGB) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > b.width {
			break
		}
		b.Set(x, y, r, fg, bg)
		if w == 2 {
			b.Set(x+1, y, ' ', fg, bg)
			if b.inBounds(x+1, y) {
				b.cells[y*b.width+x+1].cont = true
			}
		}
		x += w
	}
	return x
}

// FlushToScreen writes every cell to the tcell screen; caller invokes Show
func (b *RenderBuffer) FlushToScreen(s tcell.Screen) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x := range row {
			c := row[x]
			if c.cont {
				continue
			}
			style := tcell.StyleDefault.Foreground(c.Fg.Color()).Background(c.Bg.Color()).Bold(c.Bold)
			s.SetContent(x, y, c.Rune, nil, style)
		}
	}
}
