package draw

import (
	"strings"
	"unicode/utf8"
)

// Cell is one terminal character with its color.
type Cell struct {
	Ch    rune
	Color Color
}

var blank = Cell{Ch: ' '}

// Canvas is a grid of colored cells. Render only writes cells that changed
// since the previous Render, so a full frame can be redrawn into it every
// tick without flooding the connection.
type Canvas struct {
	width  int
	height int
	cells  []Cell // Flat slice: [y * width + x]
	prev   []Cell // What the terminal currently shows
	redraw bool   // Ignore prev on the next Render

	// 0-based terminal offsets of the canvas origin, for centering.
	offsetCol int
	offsetRow int
}

// NewCanvas creates a blank canvas of width columns by height rows.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize changes the canvas dimensions. A real size change clears the
// canvas and forces a full redraw.
func (c *Canvas) Resize(width, height int) {
	width = max(0, width)
	height = max(0, height)
	if c.cells != nil && width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.cells = make([]Cell, width*height)
	c.prev = make([]Cell, width*height)
	c.Clear()
	c.redraw = true
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Width returns the canvas width in columns.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in rows.
func (c *Canvas) Height() int {
	return c.height
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// Get returns the cell at (x, y), or a blank cell out of bounds.
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return blank
	}
	return c.cells[y*c.width+x]
}

// Set writes one character. Writes outside the canvas are dropped.
func (c *Canvas) Set(x, y int, ch rune, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = Cell{Ch: ch, Color: color}
}

// Text writes s starting at (x, y) and returns the column after it.
func (c *Canvas) Text(x, y int, s string, color Color) int {
	for _, r := range s {
		c.Set(x, y, r, color)
		x++
	}
	return x
}

// TextCentered writes s centered on row y.
func (c *Canvas) TextCentered(y int, s string, color Color) {
	c.Text((c.width-utf8.RuneCountInString(s))/2, y, s, color)
}

// Box draws a rectangular frame whose outer corners are (x, y) and
// (x+w-1, y+h-1).
func (c *Canvas) Box(x, y, w, h int, color Color) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1
	for col := x + 1; col < right; col++ {
		c.Set(col, y, BoxHorizontal, color)
		c.Set(col, bottom, BoxHorizontal, color)
	}
	for row := y + 1; row < bottom; row++ {
		c.Set(x, row, BoxVertical, color)
		c.Set(right, row, BoxVertical, color)
	}
	c.Set(x, y, BoxTopLeft, color)
	c.Set(right, y, BoxTopRight, color)
	c.Set(x, bottom, BoxBottomLeft, color)
	c.Set(right, bottom, BoxBottomRight, color)
}

// Render appends the cells that changed since the last Render to cw.
// Consecutive cells on a row share one cursor move and one color switch.
func (c *Canvas) Render(cw *ChunkWriter) {
	for row := 0; row < c.height; row++ {
		cursor := -1 // Column the terminal cursor sits at, if known
		color := ColorDefault
		for col := 0; col < c.width; col++ {
			i := row*c.width + col
			cell := c.cells[i]
			if !c.redraw && cell == c.prev[i] {
				continue
			}
			if cursor != col {
				cw.MoveCursor(col+1, row+1)
			}
			if cell.Color != color {
				cw.WriteString(string(ColorReset))
				cw.WriteString(string(cell.Color))
				color = cell.Color
			}
			cw.WriteRune(cell.Ch)
			cursor = col + 1
		}
		if color != ColorDefault {
			cw.WriteString(string(ColorReset))
		}
	}
	copy(c.prev, c.cells)
	c.redraw = false
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(cw *ChunkWriter) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Canvas-relative 1-based positions; cw adds the offset.
	left, right := 0, c.width+1
	top, bottom := 0, c.height+1
	line := strings.Repeat(string(BoxHorizontal), c.width)

	if hasV {
		if hasH {
			cw.WriteAt(left, top, string(BoxTopLeft)+line+string(BoxTopRight))
			cw.WriteAt(left, bottom, string(BoxBottomLeft)+line+string(BoxBottomRight))
		} else {
			cw.WriteAt(1, top, line)
			cw.WriteAt(1, bottom, line)
		}
	}

	if hasH {
		for row := 1; row <= c.height; row++ {
			cw.WriteAt(left, row, string(BoxVertical))
			cw.WriteAt(right, row, string(BoxVertical))
		}
	}
}
