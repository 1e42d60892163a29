package metrics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TickStats summarizes the wall time of the ticks of one run.
type TickStats struct {
	Count  int
	Total  time.Duration
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Median time.Duration
	Max    time.Duration
}

func SummarizeTicks(times []time.Duration) TickStats {
	if len(times) == 0 {
		return TickStats{}
	}

	ns := make([]float64, len(times))
	var total time.Duration
	for i, d := range times {
		ns[i] = float64(d.Nanoseconds())
		total += d
	}

	mean, std := stat.MeanStdDev(ns, nil)
	if len(ns) == 1 {
		std = 0
	}

	sorted := make([]float64, len(ns))
	copy(sorted, ns)
	sort.Float64s(sorted)

	return TickStats{
		Count:  len(times),
		Total:  total,
		Mean:   time.Duration(mean),
		StdDev: time.Duration(std),
		Min:    time.Duration(floats.Min(ns)),
		Median: time.Duration(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		Max:    time.Duration(floats.Max(ns)),
	}
}

// Speedup returns how many times faster the candidate ran than the baseline,
// by mean tick time.
func Speedup(baseline, candidate TickStats) float64 {
	if candidate.Mean == 0 {
		return 0
	}
	return float64(baseline.Mean) / float64(candidate.Mean)
}
