// Package grid schedules the circles of the grid demo. Every discrete
// step each occupied cell tries to move one cell in a random direction
// without ever sharing a destination with another circle.
package grid

import (
	"fmt"
	"math/rand"
)

type Direction int

const (
	None Direction = iota
	Up             // j+1
	Right          // i+1
	Down           // j-1
	Left           // i-1
)

// rotation is the order candidates are tried in, starting from a random
// offset and wrapping.
var rotation = [4]Direction{Up, Right, Down, Left}

func (d Direction) Offset() (di, dj int) {
	switch d {
	case Up:
		return 0, 1
	case Right:
		return 1, 0
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Grid is a size x size occupancy grid indexed by (i, j) with i along x
// and j along y. cells is the layout being animated, next is the layout
// after the scheduled moves complete.
type Grid struct {
	size  int
	cells []bool
	next  []bool
	dirs  []Direction
	rng   *rand.Rand
	steps int
}

func New(size int, rng *rand.Rand) *Grid {
	if size < 0 {
		size = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	n := size * size
	return &Grid{
		size:  size,
		cells: make([]bool, n),
		next:  make([]bool, n),
		dirs:  make([]Direction, n),
		rng:   rng,
	}
}

func (g *Grid) index(i, j int) int { return i*g.size + j }

func (g *Grid) inBounds(i, j int) bool {
	return i >= 0 && i < g.size && j >= 0 && j < g.size
}

// Fill occupies each cell independently with probability p and clears
// any scheduled moves.
func (g *Grid) Fill(p float64) {
	for k := range g.cells {
		occupied := g.rng.Float64() < p
		g.cells[k] = occupied
		g.next[k] = occupied
		g.dirs[k] = None
	}
}

// Set places or removes a circle. It takes effect immediately in both
// the current and the pending layout. Out of range cells are ignored.
func (g *Grid) Set(i, j int, occupied bool) {
	if !g.inBounds(i, j) {
		return
	}
	k := g.index(i, j)
	g.cells[k] = occupied
	g.next[k] = occupied
	g.dirs[k] = None
}

// Advance commits the pending layout and schedules the next set of moves.
// Cells are visited in raster order, i outer and j inner, and each claims
// the first free neighbor of the pending layout starting from a uniformly
// random direction.
func (g *Grid) Advance() {
	copy(g.cells, g.next)
	for k := range g.dirs {
		g.dirs[k] = None
	}

	for i := 0; i < g.size; i++ {
		for j := 0; j < g.size; j++ {
			src := g.index(i, j)
			if !g.cells[src] {
				continue
			}
			start := g.rng.Intn(len(rotation))
			for n := 0; n < len(rotation); n++ {
				d := rotation[(start+n)%len(rotation)]
				di, dj := d.Offset()
				ni, nj := i+di, j+dj
				if !g.inBounds(ni, nj) {
					continue
				}
				dst := g.index(ni, nj)
				if g.next[dst] {
					continue
				}
				g.next[dst] = true
				g.next[src] = false
				g.dirs[src] = d
				break
			}
		}
	}
	g.steps++
}

func (g *Grid) Size() int  { return g.size }
func (g *Grid) Steps() int { return g.steps }

// Occupied reports the current layout.
func (g *Grid) Occupied(i, j int) bool {
	return g.inBounds(i, j) && g.cells[g.index(i, j)]
}

// Pending reports the layout after the scheduled moves.
func (g *Grid) Pending(i, j int) bool {
	return g.inBounds(i, j) && g.next[g.index(i, j)]
}

func (g *Grid) Direction(i, j int) Direction {
	if !g.inBounds(i, j) {
		return None
	}
	return g.dirs[g.index(i, j)]
}

// Destination is where the circle at (i, j) ends up this step.
func (g *Grid) Destination(i, j int) (int, int) {
	di, dj := g.Direction(i, j).Offset()
	return i + di, j + dj
}

func (g *Grid) Count() int        { return count(g.cells) }
func (g *Grid) PendingCount() int { return count(g.next) }

// Moves counts the circles that move this step.
func (g *Grid) Moves() int {
	n := 0
	for k, d := range g.dirs {
		if g.cells[k] && d != None {
			n++
		}
	}
	return n
}

func count(cells []bool) int {
	n := 0
	for _, c := range cells {
		if c {
			n++
		}
	}
	return n
}

// String draws the current layout with j increasing upwards.
func (g *Grid) String() string {
	buf := make([]byte, 0, g.size*(g.size+1))
	for j := g.size - 1; j >= 0; j-- {
		for i := 0; i < g.size; i++ {
			if g.cells[g.index(i, j)] {
				buf = append(buf, 'o')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
