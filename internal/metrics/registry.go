package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/physim/internal/dynamo"
)

var constructors = map[string]func() dynamo.Metric{
	"kinetic_energy": func() dynamo.Metric { return NewKineticEnergy() },
	"energy_drift":   func() dynamo.Metric { return NewEnergyDrift() },
	"momentum_drift": func() dynamo.Metric { return NewMomentumDrift() },
	"contacts":       func() dynamo.Metric { return NewContacts() },
	"wall_hits":      func() dynamo.Metric { return NewWallHits() },
	"pair_tests":     func() dynamo.Metric { return NewPairTests() },
	"stability":      func() dynamo.Metric { return NewStability(1e6) },
}

// Names lists the registered metrics in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for k := range constructors {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ByName builds fresh metrics for names. An empty list selects all of them.
func ByName(names ...string) ([]dynamo.Metric, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := make([]dynamo.Metric, 0, len(names))
	for _, n := range names {
		ctor, ok := constructors[n]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", n)
		}
		out = append(out, ctor())
	}
	return out, nil
}
