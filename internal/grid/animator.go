package grid

import "github.com/san-kum/glsim/internal/geometry"

// DefaultRate is how much of a step completes per second.
const DefaultRate = 0.5

type Point struct {
	X, Y float64
}

// Animator interpolates circles between the discrete steps of a Grid.
type Animator struct {
	Grid     *Grid
	Rate     float64
	progress float64
}

// NewAnimator schedules the first step of g.
func NewAnimator(g *Grid) *Animator {
	g.Advance()
	return &Animator{Grid: g, Rate: DefaultRate}
}

// Frame advances the animation by dt seconds. Once a step completes the
// grid advances and progress restarts from zero.
func (a *Animator) Frame(dt float64) {
	a.progress += a.Rate * dt
	if a.progress >= 1 {
		a.Grid.Advance()
		a.progress = 0
	}
}

func (a *Animator) Progress() float64 { return a.progress }

// Positions returns the eased cell-space position of every circle in
// raster order.
func (a *Animator) Positions() []Point {
	g := a.Grid
	pts := make([]Point, 0, g.Count())
	for i := 0; i < g.size; i++ {
		for j := 0; j < g.size; j++ {
			if !g.cells[g.index(i, j)] {
				continue
			}
			ni, nj := g.Destination(i, j)
			pts = append(pts, Point{
				X: geometry.Lerp(float64(i), float64(ni), a.progress),
				Y: geometry.Lerp(float64(j), float64(nj), a.progress),
			})
		}
	}
	return pts
}

// ClipPositions maps Positions to cell centers in [-1,1] clip space as
// flat x,y pairs.
func (a *Animator) ClipPositions() []float32 {
	n := float64(a.Grid.size)
	pts := a.Positions()
	out := make([]float32, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, float32((2*p.X+1)/n-1), float32((2*p.Y+1)/n-1))
	}
	return out
}

// Colors returns one RGBA color per circle, shading by position.
func (a *Animator) Colors() []float32 {
	n := float64(a.Grid.size)
	pts := a.Positions()
	out := make([]float32, 0, 4*len(pts))
	for _, p := range pts {
		out = append(out, float32(p.X/n), float32(p.Y/n), 1, 1)
	}
	return out
}

// Scale is the circle radius in clip space.
func (a *Animator) Scale() float32 {
	return float32(0.5 / float64(a.Grid.size))
}
