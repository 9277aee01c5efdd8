package experiment

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/glsim/internal/config"
	"github.com/san-kum/glsim/internal/grid"
	"github.com/san-kum/glsim/internal/metrics"
	"github.com/san-kum/glsim/internal/physics"
	"github.com/san-kum/glsim/internal/sim"
)

var ErrUnknownDemo = errors.New("experiment: unknown demo")

// Instance is a constructed demo with its default metrics. Exactly one of
// Engine and Animator is set.
type Instance struct {
	Name     string
	Demo     sim.Demo
	Metrics  []sim.Metric
	Engine   *physics.Engine
	Animator *grid.Animator
}

type Builder func(cfg *config.Config, rng *rand.Rand) (*Instance, error)

type Registry struct {
	demos map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{demos: make(map[string]Builder)}
	r.demos["spheres"] = buildSpheres
	r.demos["grid"] = buildGrid
	return r
}

func buildSpheres(cfg *config.Config, rng *rand.Rand) (*Instance, error) {
	eng := physics.NewEngine(cfg.Spheres.Params(), rng)
	eng.AddSpheres(cfg.Spheres.Count)
	return &Instance{
		Name:   "spheres",
		Demo:   eng,
		Engine: eng,
		Metrics: []sim.Metric{
			metrics.NewEnergy(eng),
			metrics.NewContainment(eng),
			metrics.NewResting(eng),
		},
	}, nil
}

func buildGrid(cfg *config.Config, rng *rand.Rand) (*Instance, error) {
	g := grid.New(cfg.Grid.Size, rng)
	g.Fill(cfg.Grid.Fill)
	anim := grid.NewAnimator(g)
	anim.Rate = cfg.Grid.Rate
	return &Instance{
		Name:     "grid",
		Demo:     anim,
		Animator: anim,
		Metrics: []sim.Metric{
			metrics.NewPopulation(g),
			metrics.NewMoved(g),
		},
	}, nil
}

// Register adds or replaces a demo builder.
func (r *Registry) Register(name string, b Builder) {
	r.demos[name] = b
}

// Build constructs the named demo seeded from cfg.Seed.
func (r *Registry) Build(name string, cfg *config.Config) (*Instance, error) {
	fn, ok := r.demos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDemo, name)
	}
	return fn(cfg, rand.New(rand.NewSource(cfg.Seed)))
}

func (r *Registry) ListDemos() []string {
	names := make([]string, 0, len(r.demos))
	for name := range r.demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
