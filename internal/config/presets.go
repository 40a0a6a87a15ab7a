package config

import (
	"sort"

	"github.com/san-kum/physim/internal/physics"
	"github.com/san-kum/physim/internal/scenario"
)

func preset(kind string, w, h float64, steps int, p scenario.Params) *Config {
	p.Kind = kind
	return &Config{
		Arena:      ArenaConfig{Width: w, Height: h},
		Boundaries: physics.AllSides(),
		FPS:        DefaultFPS,
		TimeRes:    DefaultTimeRes,
		Seed:       1,
		Steps:      steps,
		Scenario:   p,
	}
}

var Presets = map[string]map[string]*Config{
	scenario.KindGas: {
		"default": preset(scenario.KindGas, 700, 600, 600, scenario.Params{N: 150, Mass: 1, Energy: 1e7, Radius: 10}),
		"dilute":  preset(scenario.KindGas, 700, 600, 600, scenario.Params{N: 40, Mass: 1, Energy: 1e6, Radius: 10}),
		"dense":   preset(scenario.KindGas, 700, 600, 300, scenario.Params{N: 400, Mass: 1, Energy: 1e7, Radius: 6}),
	},
	scenario.KindBlock: {
		"default": preset(scenario.KindBlock, 600, 600, 600, scenario.Params{Scale: 10}),
		"heavy":   preset(scenario.KindBlock, 600, 600, 600, scenario.Params{Scale: 10, Mass: 5}),
	},
	scenario.KindWave: {
		"default": preset(scenario.KindWave, 400, 400, 600, scenario.Params{Scale: 30}),
		"fine":    preset(scenario.KindWave, 600, 600, 900, scenario.Params{Scale: 15}),
	},
	scenario.KindCollision: {
		"default": preset(scenario.KindCollision, 600, 600, 600, scenario.Params{Scale: 10}),
		"naive": func() *Config {
			c := preset(scenario.KindCollision, 600, 600, 600, scenario.Params{Scale: 10})
			c.Naive = true
			return c
		}(),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, name string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
