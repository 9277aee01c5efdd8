package metrics

import "github.com/san-kum/glsim/internal/grid"

// Population reports the number of circles. The scheduler never creates
// or destroys circles, so any change is counted as a violation.
type Population struct {
	name       string
	g          *grid.Grid
	initial    int
	current    int
	violations int
	samples    int
}

func NewPopulation(g *grid.Grid) *Population {
	return &Population{name: "population", g: g}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(t float64) {
	p.current = p.g.Count()
	if p.samples == 0 {
		p.initial = p.current
	}
	if p.current != p.initial || p.g.PendingCount() != p.initial {
		p.violations++
	}
	p.samples++
}

func (p *Population) Value() float64 { return float64(p.current) }

// Violations counts observations whose population differed from the first.
func (p *Population) Violations() int { return p.violations }

func (p *Population) Reset() {
	p.initial = 0
	p.current = 0
	p.violations = 0
	p.samples = 0
}

// Moved is the mean fraction of circles in motion per observed frame.
type Moved struct {
	name    string
	g       *grid.Grid
	current float64
	total   float64
	samples int
}

func NewMoved(g *grid.Grid) *Moved {
	return &Moved{name: "moved", g: g}
}

func (m *Moved) Name() string { return m.name }

func (m *Moved) Observe(t float64) {
	m.current = 0
	if n := m.g.Count(); n > 0 {
		m.current = float64(m.g.Moves()) / float64(n)
	}
	m.total += m.current
	m.samples++
}

func (m *Moved) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Moved) Current() float64 { return m.current }

func (m *Moved) Reset() {
	m.current = 0
	m.total = 0
	m.samples = 0
}
