package grid

import "github.com/tomz197/voidblocks/internal/piece"

// Virus spread tuning.
const (
	SpreadChance      = 0.3 // Per eligible neighbour, per spread pass
	SpreadPeriodTicks = 180 // 3 seconds at 60 ticks/second
)

// spreadDirections lists neighbour offsets in the order they are rolled:
// down, up, right, left.
var spreadDirections = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Update advances the spread countdown by one tick and runs SpreadVirus when
// it expires. It reports whether a spread pass ran.
func (g *Grid) Update() bool {
	g.spreadTimer++
	if g.spreadTimer < SpreadPeriodTicks {
		return false
	}
	g.spreadTimer = 0
	g.SpreadVirus()
	return true
}

// SpreadVirus runs one propagation pass and returns the number of newly
// infected cells.
//
// Eligibility is judged against the infection state at the start of the pass,
// so cells infected during the pass do not spread until the next one.
func (g *Grid) SpreadVirus() int {
	copy(g.snapshot, g.infected)

	spread := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.snapshot[g.index(x, y)] {
				continue
			}
			for _, d := range spreadDirections {
				nx, ny := x+d[0], y+d[1]
				if !g.InBounds(nx, ny) {
					continue
				}
				ni := g.index(nx, ny)
				if g.cells[ni] == piece.Empty || g.snapshot[ni] {
					continue
				}
				if g.src.Float64() < SpreadChance {
					if !g.infected[ni] {
						spread++
					}
					g.infected[ni] = true
					g.cells[ni] = piece.Virus
				}
			}
		}
	}
	return spread
}

// ClearAllVirus empties every infected cell and returns how many were removed.
func (g *Grid) ClearAllVirus() int {
	removed := 0
	for i, inf := range g.infected {
		if !inf {
			continue
		}
		g.cells[i] = piece.Empty
		g.infected[i] = false
		removed++
	}
	return removed
}

// InfectedCount returns the number of infected cells.
func (g *Grid) InfectedCount() int {
	n := 0
	for _, inf := range g.infected {
		if inf {
			n++
		}
	}
	return n
}

// SpreadCountdown returns the ticks left until the next spread pass.
func (g *Grid) SpreadCountdown() int {
	return SpreadPeriodTicks - g.spreadTimer
}
