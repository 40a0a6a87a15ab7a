package automation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/metrics"
	"github.com/san-kum/physim/internal/physics"
)

// SeedSweep repeats one scenario under consecutive seeds.
type SeedSweep struct {
	Config    *config.Config
	Runs      int
	SeedStart int64
}

// SweepResult summarizes one run of a sweep.
type SweepResult struct {
	Seed        int64
	ParamValue  float64
	Metrics     map[string]float64
	FinalEnergy float64
	Contacts    int
}

// RunSeedSweep runs every seed concurrently through a dynamo.Ensemble.
func (r *Runner) RunSeedSweep(ctx context.Context, sweep *SeedSweep) ([]SweepResult, error) {
	if sweep.Runs <= 0 {
		return nil, fmt.Errorf("sweep needs at least one run, got %d", sweep.Runs)
	}
	cfg := sweep.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := metrics.ByName(cfg.Metrics...); err != nil {
		return nil, err
	}

	build := func(seed int64) ([]physics.Body, []physics.Wall, error) {
		sc, err := cfg.Build(seed)
		if err != nil {
			return nil, nil, err
		}
		return sc.Bodies, sc.Walls, nil
	}
	ens := dynamo.NewEnsemble(build, cfg.SimConfig(), sweep.Runs, sweep.SeedStart).
		WithMetrics(func() []dynamo.Metric {
			ms, _ := metrics.ByName(cfg.Metrics...)
			return ms
		})

	r.log.Info(ctx, "starting seed sweep", "scenario", cfg.Scenario.Kind, "runs", sweep.Runs, "seed_start", sweep.SeedStart)
	results, err := ens.Run(ctx, cfg.Steps)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, res := range results {
		out[i] = summarize(res)
		out[i].Seed = sweep.SeedStart + int64(i)
	}
	r.log.Info(ctx, "seed sweep finished", "runs", len(out))
	return out, nil
}

// ParameterSweep varies one scenario parameter over a range.
type ParameterSweep struct {
	Config    *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepParams lists the parameters ParameterSweep can vary.
func SweepParams() []string {
	names := make([]string, 0, len(setters))
	for k := range setters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var setters = map[string]func(*config.Config, float64){
	"n":         func(c *config.Config, v float64) { c.Scenario.N = int(math.Round(v)) },
	"mass":      func(c *config.Config, v float64) { c.Scenario.Mass = v },
	"energy":    func(c *config.Config, v float64) { c.Scenario.Energy = v },
	"radius":    func(c *config.Config, v float64) { c.Scenario.Radius = v },
	"scale":     func(c *config.Config, v float64) { c.Scenario.Scale = v },
	"cell_size": func(c *config.Config, v float64) { c.CellSize = v },
	"time_res":  func(c *config.Config, v float64) { c.TimeRes = v },
}

// RunParameterSweep runs the scenario once per parameter value, in order.
func (r *Runner) RunParameterSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	set, ok := setters[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := *sweep.Config
		set(&cfg, paramVal)

		out, err := r.RunConfig(ctx, cfg.Scenario.Kind, &cfg, false)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		res := summarize(out.Result)
		res.Seed = cfg.Seed
		res.ParamValue = paramVal
		results = append(results, res)

		r.log.Debug(ctx, "sweep step", "index", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal)
	}

	return results, nil
}

func summarize(res *dynamo.Result) SweepResult {
	out := SweepResult{Metrics: res.Metrics}
	if n := len(res.KineticEnergy); n > 0 {
		out.FinalEnergy = res.KineticEnergy[n-1]
	}
	for _, c := range res.Contacts {
		out.Contacts += c
	}
	return out
}

// Stats holds the mean and standard deviation of one metric over a sweep.
type Stats struct {
	Mean   float64
	StdDev float64
}

// SweepStats aggregates every metric present in results.
func SweepStats(results []SweepResult) map[string]Stats {
	values := make(map[string][]float64)
	for _, r := range results {
		for k, v := range r.Metrics {
			values[k] = append(values[k], v)
		}
		values["final_energy"] = append(values["final_energy"], r.FinalEnergy)
		values["total_contacts"] = append(values["total_contacts"], float64(r.Contacts))
	}

	stats := make(map[string]Stats, len(values))
	for k, vs := range values {
		mean := 0.0
		for _, v := range vs {
			mean += v
		}
		mean /= float64(len(vs))
		variance := 0.0
		for _, v := range vs {
			variance += (v - mean) * (v - mean)
		}
		stats[k] = Stats{Mean: mean, StdDev: math.Sqrt(variance / float64(len(vs)))}
	}
	return stats
}
