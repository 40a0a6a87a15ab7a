package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/logging"
	"github.com/san-kum/physim/internal/metrics"
	"github.com/san-kum/physim/internal/physics"
	"github.com/san-kum/physim/internal/storage"
)

// Script is a sequence of runs read from YAML.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Runs        []ScriptStep `yaml:"runs"`
}

// ScriptStep is one run. It starts from a preset ("kind/name") or a
// scenario file, then applies the overrides that are set.
type ScriptStep struct {
	Preset  string   `yaml:"preset"`
	Config  string   `yaml:"config"`
	Steps   int      `yaml:"steps"`
	Seed    *int64   `yaml:"seed"`
	Naive   *bool    `yaml:"naive"`
	Metrics []string `yaml:"metrics"`
	SaveAs  string   `yaml:"save_as"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &script, nil
}

// RunOutcome is the result of one script step.
type RunOutcome struct {
	Name   string
	Seed   int64
	RunID  string
	Info   storage.RunInfo
	Result *dynamo.Result
	// Walls holds the boundary walls followed by the scenario walls.
	Walls  []physics.Wall
}

// Runner executes scripts and sweeps. A nil store skips saving.
type Runner struct {
	log       *logging.Logger
	store     *storage.Store
	observers []dynamo.Observer
}

func NewRunner(log *logging.Logger, store *storage.Store) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{log: log, store: store}
}

// Observe attaches observers to every simulator RunConfig creates.
func (r *Runner) Observe(obs ...dynamo.Observer) *Runner {
	r.observers = append(r.observers, obs...)
	return r
}

// ResolveStep turns a step into a scenario config. Relative config paths
// are taken from baseDir.
func ResolveStep(step ScriptStep, baseDir string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Preset != "":
		kind, name, ok := strings.Cut(step.Preset, "/")
		if !ok {
			name = "default"
		}
		cfg = config.GetPreset(kind, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	default:
		cfg = config.DefaultConfig()
	}

	if step.Steps > 0 {
		cfg.Steps = step.Steps
	}
	if step.Seed != nil {
		cfg.Seed = *step.Seed
	}
	if step.Naive != nil {
		cfg.Naive = *step.Naive
	}
	if len(step.Metrics) > 0 {
		cfg.Metrics = step.Metrics
	}
	return cfg, cfg.Validate()
}

// RunScript executes every step in order and stops at the first failure,
// returning the outcomes completed so far.
func (r *Runner) RunScript(ctx context.Context, script *Script, baseDir string) ([]RunOutcome, error) {
	results := make([]RunOutcome, 0, len(script.Runs))

	for i, step := range script.Runs {
		cfg, err := ResolveStep(step, baseDir)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = cfg.Scenario.Kind
		}
		r.log.Info(ctx, "running script step", "step", i+1, "of", len(script.Runs), "scenario", name, "seed", cfg.Seed)

		out, err := r.RunConfig(ctx, name, cfg, step.SaveAs != "")
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, *out)
	}

	return results, nil
}

// RunConfig runs one scenario config and optionally logs it to the store.
func (r *Runner) RunConfig(ctx context.Context, name string, cfg *config.Config, save bool) (*RunOutcome, error) {
	sim, err := cfg.NewSimulator(cfg.Seed)
	if err != nil {
		return nil, err
	}
	ms, err := metrics.ByName(cfg.Metrics...)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		sim.AddMetric(m)
	}
	for _, o := range r.observers {
		sim.AddObserver(o)
	}

	result, err := sim.Run(ctx, cfg.Steps)
	if err != nil {
		return nil, err
	}

	out := &RunOutcome{
		Name: name,
		Seed: cfg.Seed,
		Info: storage.RunInfo{
			Scenario: name,
			Seed:     cfg.Seed,
			Dt:       sim.Dt(),
			Steps:    cfg.Steps,
			Bodies:   sim.Len(),
			Walls:    len(sim.Walls()),
			Naive:    cfg.Naive,
		},
		Result: result,
		Walls:  append(append([]physics.Wall(nil), sim.Borders()...), sim.Walls()...),
	}
	if save && r.store != nil {
		if out.RunID, err = r.store.Save(out.Info, result); err != nil {
			return nil, fmt.Errorf("save %s: %w", name, err)
		}
		r.log.Info(logging.WithRunID(ctx, out.RunID), "run saved", "scenario", name)
	}
	return out, nil
}
