// Package grid implements the playfield: a cell matrix of block kinds and a
// parallel infection matrix, stored row-major in flat slices.
package grid

import (
	"github.com/tomz197/voidblocks/internal/piece"
	"github.com/tomz197/voidblocks/internal/rng"
)

// InfectChance is the per-cell probability that a committed block turns into
// a virus cell.
const InfectChance = 0.1

// Grid owns the board cells and their infection flags. Row 0 is the spawn row.
//
// Invariant: infected[i] implies cells[i] != piece.Empty.
type Grid struct {
	width    int
	height   int
	cells    []piece.Kind // Flat slice: [y * width + x]
	infected []bool       // Parallel to cells
	src      rng.Source

	spreadTimer int
	snapshot    []bool // Reused infection snapshot for SpreadVirus
}

// CommitResult summarizes what a Commit wrote into the grid.
type CommitResult struct {
	Placed   int // Cells written inside the grid
	Infected int // Placed cells converted to virus by the infection roll
	Virus    int // Placed cells that ended up as virus, infected or not
}

// New creates an empty grid. src drives infection and spread rolls.
func New(width, height int, src rng.Source) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Grid{
		width:    width,
		height:   height,
		cells:    make([]piece.Kind, width*height),
		infected: make([]bool, width*height),
		snapshot: make([]bool, width*height),
		src:      src,
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether (x, y) lies on the board.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// Cell returns the kind at (x, y), or piece.Empty when out of bounds.
func (g *Grid) Cell(x, y int) piece.Kind {
	if !g.InBounds(x, y) {
		return piece.Empty
	}
	return g.cells[g.index(x, y)]
}

// Infected reports whether (x, y) is a virus-origin cell.
func (g *Grid) Infected(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.infected[g.index(x, y)]
}

// Set writes a kind at (x, y) and clears its infection flag. Writes outside
// the board are ignored. Used to seed boards and by tools.
func (g *Grid) Set(x, y int, k piece.Kind) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.index(x, y)
	g.cells[i] = k
	g.infected[i] = false
}

// Infect turns (x, y) into an infected virus cell.
func (g *Grid) Infect(x, y int) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.index(x, y)
	g.cells[i] = piece.Virus
	g.infected[i] = true
}

// CanPlace reports whether every occupied cell of p's shape, anchored at
// (x, y), is on the board and empty.
func (g *Grid) CanPlace(p piece.Piece, x, y int) bool {
	for dx, dy := range p.Shape.Cells() {
		wx, wy := x+dx, y+dy
		if !g.InBounds(wx, wy) || g.cells[g.index(wx, wy)] != piece.Empty {
			return false
		}
	}
	return true
}

// Commit copies p into the grid. Each placed cell then independently rolls
// InfectChance to become an infected virus cell.
func (g *Grid) Commit(p piece.Piece) CommitResult {
	var res CommitResult
	for x, y := range p.Cells() {
		if !g.InBounds(x, y) {
			continue
		}
		i := g.index(x, y)
		g.cells[i] = p.Kind
		g.infected[i] = false
		res.Placed++

		if g.src.Float64() < InfectChance {
			g.cells[i] = piece.Virus
			g.infected[i] = true
			res.Infected++
		}
		if g.cells[i] == piece.Virus {
			res.Virus++
		}
	}
	return res
}

// ClearFullLines removes every row whose cells are all occupied and returns
// how many were removed. Rows above a removed row shift down by one and an
// empty row enters at the top.
func (g *Grid) ClearFullLines() int {
	cleared := 0
	for y := g.height - 1; y >= 0; {
		if !g.isLineFull(y) {
			y--
			continue
		}
		g.removeLine(y)
		cleared++
		// Row y now holds what was above it; examine it again.
	}
	return cleared
}

func (g *Grid) isLineFull(y int) bool {
	row := g.cells[g.index(0, y):g.index(0, y+1)]
	for _, c := range row {
		if c == piece.Empty {
			return false
		}
	}
	return true
}

// removeLine drops row y from both matrices and inserts an empty row at the top.
func (g *Grid) removeLine(y int) {
	end := g.index(0, y)
	copy(g.cells[g.width:end+g.width], g.cells[:end])
	copy(g.infected[g.width:end+g.width], g.infected[:end])
	clear(g.cells[:g.width])
	clear(g.infected[:g.width])
}

// IsGameOver reports whether any cell in the spawn row is occupied.
func (g *Grid) IsGameOver() bool {
	for _, c := range g.cells[:g.width] {
		if c != piece.Empty {
			return true
		}
	}
	return false
}

// GhostY returns the lowest y that p can drop to from its current position.
// If p cannot be placed where it is, p.Y is returned.
func (g *Grid) GhostY(p piece.Piece) int {
	y := p.Y
	for g.CanPlace(p, p.X, y+1) {
		y++
	}
	return y
}

// Occupied returns the number of non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.cells {
		if c != piece.Empty {
			n++
		}
	}
	return n
}

// Reset empties the board and restarts the spread countdown.
func (g *Grid) Reset() {
	clear(g.cells)
	clear(g.infected)
	g.spreadTimer = 0
}
