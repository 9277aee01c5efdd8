package experiment

import (
	"context"

	"github.com/san-kum/glsim/internal/config"
	"github.com/san-kum/glsim/internal/sim"
)

type Experiment struct {
	cfg    *config.Config
	inst   *Instance
	runner *sim.Runner
}

// New builds cfg.Demo from the registry and attaches its metrics.
func New(reg *Registry, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	inst, err := reg.Build(cfg.Demo, cfg)
	if err != nil {
		return nil, err
	}
	runner := sim.New()
	for _, m := range inst.Metrics {
		runner.AddMetric(m)
	}
	return &Experiment{cfg: cfg, inst: inst, runner: runner}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.runner.Run(ctx, e.inst.Demo, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:          e.cfg.FrameDt,
		Frames:      e.cfg.Frames,
		SampleEvery: e.cfg.SampleEvery,
	}
}

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *sim.Runner { return e.runner }

func (e *Experiment) Instance() *Instance { return e.inst }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Factory adapts the registry to sim.Ensemble, keeping every setting of
// cfg apart from the seed.
func Factory(reg *Registry, cfg *config.Config) sim.Factory {
	return func(seed int64) (sim.Demo, []sim.Metric, error) {
		c := *cfg
		c.Seed = seed
		inst, err := reg.Build(c.Demo, &c)
		if err != nil {
			return nil, nil, err
		}
		return inst.Demo, inst.Metrics, nil
	}
}
