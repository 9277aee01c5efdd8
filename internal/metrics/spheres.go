package metrics

import (
	"math"

	"github.com/san-kum/glsim/internal/physics"
)

// Energy tracks the mean total mechanical energy of the sphere box. Drag
// and the lossy floor make it decay towards the resting potential.
type Energy struct {
	name    string
	eng     *physics.Engine
	current float64
	total   float64
	samples int
}

func NewEnergy(eng *physics.Engine) *Energy {
	return &Energy{name: "energy", eng: eng}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(t float64) {
	e.current = e.eng.KineticEnergy() + e.eng.PotentialEnergy()
	e.total += e.current
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Current() float64 { return e.current }

func (e *Energy) Reset() {
	e.current = 0
	e.total = 0
	e.samples = 0
}

// Containment records the worst distance any sphere surface reached past
// the box. Values at or below zero mean every sphere stayed inside.
type Containment struct {
	name    string
	eng     *physics.Engine
	current float64
	worst   float64
	samples int
}

func NewContainment(eng *physics.Engine) *Containment {
	c := &Containment{name: "containment", eng: eng}
	c.Reset()
	return c
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(t float64) {
	c.current = math.Inf(-1)
	for _, s := range c.eng.Spheres() {
		c.current = math.Max(c.current, s.Overshoot())
	}
	if c.eng.Len() == 0 {
		c.current = -1
	}
	c.worst = math.Max(c.worst, c.current)
	c.samples++
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return -1
	}
	return c.worst
}

func (c *Containment) Current() float64 { return c.current }

func (c *Containment) Reset() {
	c.current = -1
	c.worst = -1
	c.samples = 0
}

// Resting is the fraction of spheres lying still on the floor at the
// last observation.
type Resting struct {
	name     string
	eng      *physics.Engine
	fraction float64
}

func NewResting(eng *physics.Engine) *Resting {
	return &Resting{name: "resting", eng: eng}
}

func (r *Resting) Name() string { return r.name }

func (r *Resting) Observe(t float64) {
	spheres := r.eng.Spheres()
	if len(spheres) == 0 {
		r.fraction = 0
		return
	}
	n := 0
	for _, s := range spheres {
		if s.Resting() {
			n++
		}
	}
	r.fraction = float64(n) / float64(len(spheres))
}

func (r *Resting) Value() float64 { return r.fraction }
func (r *Resting) Reset()         { r.fraction = 0 }
