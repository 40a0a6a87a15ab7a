package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
	"github.com/san-kum/physim/internal/scenario"
)

const (
	DefaultWidth   = 600.0
	DefaultHeight  = 600.0
	DefaultFPS     = 60.0
	DefaultTimeRes = 1.0
	DefaultSteps   = 600
)

// Config is a scenario file. Explicit bodies take precedence over the
// scenario generator; explicit walls are added to whatever it produces.
type Config struct {
	Name       string          `yaml:"name,omitempty"`
	Arena      ArenaConfig     `yaml:"arena"`
	Boundaries physics.Sides   `yaml:"boundaries"`
	Dt         float64         `yaml:"dt,omitempty"`
	FPS        float64         `yaml:"fps"`
	TimeRes    float64         `yaml:"time_res"`
	CellSize   float64         `yaml:"cell_size,omitempty"`
	Seed       int64           `yaml:"seed"`
	Naive      bool            `yaml:"naive,omitempty"`
	Steps      int             `yaml:"steps"`
	Scenario   scenario.Params `yaml:"scenario"`
	Bodies     []BodyConfig    `yaml:"bodies,omitempty"`
	Walls      []WallConfig    `yaml:"walls,omitempty"`
	Metrics    []string        `yaml:"metrics,omitempty"`
}

type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BodyConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
	Charge float64 `yaml:"charge,omitempty"`
}

type WallConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Arena:      ArenaConfig{Width: DefaultWidth, Height: DefaultHeight},
		Boundaries: physics.AllSides(),
		FPS:        DefaultFPS,
		TimeRes:    DefaultTimeRes,
		Seed:       1,
		Steps:      DefaultSteps,
		Scenario:   scenario.Params{Kind: scenario.KindCollision},
	}
}

// Load reads a scenario file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig maps the file onto the simulator's settings.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Width:         c.Arena.Width,
		Height:        c.Arena.Height,
		Boundaries:    c.Boundaries,
		Dt:            c.Dt,
		FPS:           c.FPS,
		TimeRes:       c.TimeRes,
		CellSize:      c.CellSize,
		Seed:          c.Seed,
		Naive:         c.Naive,
		ValidateState: true,
	}
}

func (c *Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", physics.ErrInvalidConfiguration, c.Steps)
	}
	return c.SimConfig().Validate()
}

// Build produces the population described by the file. seed overrides
// c.Seed so sweeps can reuse one file.
func (c *Config) Build(seed int64) (*scenario.Scenario, error) {
	var sc *scenario.Scenario
	if len(c.Bodies) > 0 {
		sc = &scenario.Scenario{Name: c.Name, Width: c.Arena.Width, Height: c.Arena.Height}
		for i, bc := range c.Bodies {
			b, err := physics.NewBody(physics.V(bc.X, bc.Y), physics.V(bc.VX, bc.VY), bc.Mass, bc.Radius, physics.WithCharge(bc.Charge))
			if err != nil {
				return nil, fmt.Errorf("body %d: %w", i, err)
			}
			sc.Bodies = append(sc.Bodies, b)
		}
	} else {
		var err error
		sc, err = scenario.Build(c.Scenario, c.Arena.Width, c.Arena.Height, seed)
		if err != nil {
			return nil, err
		}
	}

	for i, wc := range c.Walls {
		w, err := physics.NewWall(physics.V(wc.X, wc.Y), wc.Width, wc.Height)
		if err != nil {
			return nil, fmt.Errorf("wall %d: %w", i, err)
		}
		sc.Walls = append(sc.Walls, w)
	}
	if c.Name != "" {
		sc.Name = c.Name
	}
	return sc, nil
}

// NewSimulator builds the population for seed and returns a simulator over
// it with the file's settings.
func (c *Config) NewSimulator(seed int64) (*dynamo.Simulator, error) {
	sc, err := c.Build(seed)
	if err != nil {
		return nil, err
	}
	simCfg := c.SimConfig()
	simCfg.Seed = seed
	return dynamo.New(sc.Bodies, sc.Walls, simCfg)
}
