package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/glsim/internal/config"
	"github.com/san-kum/glsim/internal/experiment"
)

var (
	ErrUnknownParam  = errors.New("optim: unknown parameter")
	ErrUnknownMetric = errors.New("optim: unknown metric")
)

// setters maps sweepable parameter names onto config fields.
var setters = map[string]func(c *config.Config, v float64){
	"gravity":     func(c *config.Config, v float64) { c.Spheres.Gravity = v },
	"restitution": func(c *config.Config, v float64) { c.Spheres.Restitution = v },
	"base_drag":   func(c *config.Config, v float64) { c.Spheres.BaseDrag = v },
	"count":       func(c *config.Config, v float64) { c.Spheres.Count = int(v) },
	"fill":        func(c *config.Config, v float64) { c.Grid.Fill = v },
	"rate":        func(c *config.Config, v float64) { c.Grid.Rate = v },
	"size":        func(c *config.Config, v float64) { c.Grid.Size = int(v) },
}

// Params lists the names accepted by GridSearch.
func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of base with the named parameters set.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	c := *base
	for name, v := range params {
		set, ok := setters[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		set(&c, v)
	}
	return &c, nil
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated point of the search.
type Trial struct {
	Params map[string]float64
	Value  float64
}

// Search runs base once per point of the cartesian product of the ranges
// and returns the best trial on metricName along with every trial in
// evaluation order. Invalid configurations are skipped.
func (g *GridSearch) Search(ctx context.Context, reg *experiment.Registry, base *config.Config, metricName string) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, ok := setters[name]; !ok {
			return Trial{}, nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}

	s := &search{grid: g, reg: reg, base: base, metric: metricName, best: Trial{Value: math.Inf(1)}}
	if g.Maximize {
		s.best.Value = math.Inf(-1)
	}
	if err := s.recurse(ctx, 0, map[string]float64{}); err != nil {
		return s.best, s.trials, err
	}
	if s.best.Params == nil {
		return s.best, s.trials, fmt.Errorf("optim: no valid configuration in the search space")
	}
	return s.best, s.trials, nil
}

type search struct {
	grid   *GridSearch
	reg    *experiment.Registry
	base   *config.Config
	metric string
	best   Trial
	trials []Trial
}

func (s *search) recurse(ctx context.Context, depth int, current map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(s.grid.paramNames) {
		return s.evaluate(ctx, current)
	}

	paramName := s.grid.paramNames[depth]
	for _, val := range s.grid.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := s.recurse(ctx, depth+1, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *search) evaluate(ctx context.Context, params map[string]float64) error {
	cfg, err := Apply(s.base, params)
	if err != nil {
		return err
	}
	exp, err := experiment.New(s.reg, cfg)
	if errors.Is(err, config.ErrInvalid) {
		return nil
	}
	if err != nil {
		return err
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	val, ok := result.Metrics[s.metric]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, s.metric)
	}

	s.trials = append(s.trials, Trial{Params: params, Value: val})
	if (s.grid.Maximize && val > s.best.Value) || (!s.grid.Maximize && val < s.best.Value) {
		s.best = Trial{Params: params, Value: val}
	}
	return nil
}
