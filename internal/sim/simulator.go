package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

type Runner struct {
	metrics   []Metric
	observers []Observer
}

func New() *Runner {
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Metrics() []Metric { return r.metrics }

// Run advances demo for cfg.Frames frames of cfg.Dt seconds. Metrics and
// observers see the demo after every frame. On cancellation the partial
// result is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, demo Demo, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	stride := cfg.SampleEvery
	if stride <= 0 {
		stride = 1
	}

	samples := cfg.Frames/stride + 1
	result := &Result{
		Times:   make([]float64, 0, samples),
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, samples)
	}

	t := 0.0
	for frame := 1; frame <= cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		demo.Frame(cfg.Dt)
		t += cfg.Dt
		result.Frames++

		for _, m := range r.metrics {
			m.Observe(t)
		}
		for _, obs := range r.observers {
			obs.OnFrame(frame, t)
		}

		if frame%stride == 0 || frame == cfg.Frames {
			result.Times = append(result.Times, t)
			for _, m := range r.metrics {
				v := m.Value()
				if s, ok := m.(Sampler); ok {
					v = s.Current()
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return result, SimError{Frame: frame, Time: t, Message: m.Name() + " is not finite"}
				}
				result.Series[m.Name()] = append(result.Series[m.Name()], v)
			}
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, cfg.Frames)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample stride must not be negative", ErrInvalidConfig)
	}
	return nil
}

// RunUntil drives demo until callback returns false, cfg.Frames frames
// elapse, or ctx is canceled. The callback runs after each frame.
func (r *Runner) RunUntil(ctx context.Context, demo Demo, cfg Config, callback func(frame int, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for frame := 1; frame <= cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		demo.Frame(cfg.Dt)
		t += cfg.Dt
		for _, m := range r.metrics {
			m.Observe(t)
		}
		if !callback(frame, t) {
			return nil
		}
	}
	return nil
}
