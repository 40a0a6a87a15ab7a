package dynamo

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/physim/internal/physics"
)

// BuildFunc produces the bodies and walls of one run from its seed.
type BuildFunc func(seed int64) ([]physics.Body, []physics.Wall, error)

// Ensemble runs independent simulators, one per seed, concurrently. Each
// run owns its own arena, grid and random source.
type Ensemble struct {
	build     BuildFunc
	cfg       Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

func NewEnsemble(build BuildFunc, cfg Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a factory for the metrics attached to every run.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.metrics = fn
	return e
}

// Run executes every run for steps steps. Results are ordered by seed.
func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			bodies, walls, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
				return
			}
			s, err := New(bodies, walls, cfgCopy)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, steps)
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
