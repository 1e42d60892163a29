package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

var constructors = map[string]func() dynamo.Metric{
	"energy":   func() dynamo.Metric { return NewEnergyDrift() },
	"momentum": func() dynamo.Metric { return NewMomentumDrift() },
	"orbit":    func() dynamo.Metric { return NewOrbitDeviation() },
	"validity": func() dynamo.Metric { return NewValidity() },
}

// ByName returns a fresh metric for one of the names in Names().
func ByName(name string) (dynamo.Metric, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
