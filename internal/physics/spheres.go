package physics

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Params holds the constants of the sphere box simulation.
type Params struct {
	Dt          float64 // fixed timestep, independent of real frame time
	Gravity     float64 // acceleration along y
	BaseDrag    float64 // velocity retained per second
	Restitution float64 // floor bounce factor
	RestSpeed   float64 // floor impacts slower than this freeze the sphere
	MinRadius   float64
	MaxRadius   float64
	MaxSpeed    float64 // initial velocity range per axis is [-MaxSpeed, MaxSpeed]
}

func DefaultParams() Params {
	return Params{
		Dt:          1.0 / 60.0,
		Gravity:     -5.0,
		BaseDrag:    0.4,
		Restitution: 0.7,
		RestSpeed:   0.7,
		MinRadius:   0.05,
		MaxRadius:   0.2,
		MaxSpeed:    3.0,
	}
}

// Drag returns the per-tick velocity scale BaseDrag^Dt.
func (p Params) Drag() float64 {
	return math.Pow(p.BaseDrag, p.Dt)
}

type Sphere struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64
	Color    mgl64.Vec3
}

// Engine owns a set of spheres bouncing inside the [-1,1]^3 box.
// Spheres only collide with the walls, never with each other.
type Engine struct {
	Params  Params
	spheres []Sphere
	rng     *rand.Rand
	ticks   int
}

func NewEngine(p Params, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Engine{Params: p, rng: rng}
}

// New creates an engine with the default constants.
func New(rng *rand.Rand) *Engine {
	return NewEngine(DefaultParams(), rng)
}

func (e *Engine) randomInRange(min, max float64) float64 {
	return e.rng.Float64()*(max-min) + min
}

// AddSpheres appends count randomized spheres. Each sphere's position is
// inset by its own radius so it starts fully inside the box.
func (e *Engine) AddSpheres(count int) {
	p := e.Params
	for i := 0; i < count; i++ {
		r := e.randomInRange(p.MinRadius, p.MaxRadius)
		s := Sphere{Radius: r}
		for a := 0; a < 3; a++ {
			s.Position[a] = e.randomInRange(-1+r, 1-r)
		}
		for a := 0; a < 3; a++ {
			s.Velocity[a] = e.randomInRange(-p.MaxSpeed, p.MaxSpeed)
		}
		for a := 0; a < 3; a++ {
			s.Color[a] = e.randomInRange(0, 1)
		}
		e.spheres = append(e.spheres, s)
	}
}

// Add appends an explicitly constructed sphere.
func (e *Engine) Add(s Sphere) {
	e.spheres = append(e.spheres, s)
}

func (e *Engine) Clear() {
	e.spheres = e.spheres[:0]
}

func (e *Engine) Len() int   { return len(e.spheres) }
func (e *Engine) Ticks() int { return e.ticks }

// Spheres returns a copy of the current sphere states.
func (e *Engine) Spheres() []Sphere {
	out := make([]Sphere, len(e.spheres))
	copy(out, e.spheres)
	return out
}

// Step advances every sphere by one fixed timestep.
func (e *Engine) Step() {
	dt := e.Params.Dt
	drag := e.Params.Drag()
	for i := range e.spheres {
		s := &e.spheres[i]
		s.Position = s.Position.Add(s.Velocity.Mul(dt))
		s.Velocity[1] += dt * e.Params.Gravity
		s.Velocity = s.Velocity.Mul(drag)
		e.collide(s)
	}
	e.ticks++
}

// Frame is the per-frame host entry. The elapsed frame time is ignored:
// the simulation advances exactly one fixed step per rendered frame.
func (e *Engine) Frame(_ float64) {
	e.Step()
}

// KineticEnergy returns the total kinetic energy of all spheres with unit mass.
func (e *Engine) KineticEnergy() float64 {
	total := 0.0
	for _, s := range e.spheres {
		total += 0.5 * s.Velocity.Dot(s.Velocity)
	}
	return total
}

// PotentialEnergy returns the total gravitational energy with unit mass,
// measured from the floor at y = -1.
func (e *Engine) PotentialEnergy() float64 {
	total := 0.0
	for _, s := range e.spheres {
		total += -e.Params.Gravity * (s.Position[1] + 1)
	}
	return total
}

// Snapshot is the per-frame view handed to the renderer.
type Snapshot struct {
	Tick      int
	Count     int
	Positions []float32 // 3 per sphere
	Radii     []float32
	Colors    []float32 // 3 per sphere
}

func (e *Engine) Snapshot() Snapshot {
	n := len(e.spheres)
	snap := Snapshot{
		Tick:      e.ticks,
		Count:     n,
		Positions: make([]float32, 0, 3*n),
		Radii:     make([]float32, 0, n),
		Colors:    make([]float32, 0, 3*n),
	}
	for _, s := range e.spheres {
		snap.Positions = append(snap.Positions, float32(s.Position[0]), float32(s.Position[1]), float32(s.Position[2]))
		snap.Radii = append(snap.Radii, float32(s.Radius))
		snap.Colors = append(snap.Colors, float32(s.Color[0]), float32(s.Color[1]), float32(s.Color[2]))
	}
	return snap
}
