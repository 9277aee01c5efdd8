package sim

import (
	"context"
	"sync"
)

// Factory builds an independent demo and its metrics for one seed.
type Factory func(seed int64) (Demo, []Metric, error)

// Ensemble runs the same demo under consecutive seeds concurrently.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(f Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: f, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			demo, metrics, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			r := New()
			for _, m := range metrics {
				r.AddMetric(m)
			}
			results[idx], errs[idx] = r.Run(ctx, demo, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
