package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/physics"
)

// OrbitDeviation is the largest relative change of any orbiter's distance to
// the central body since the first observed tick.
type OrbitDeviation struct {
	name     string
	initial  []float64
	maxDev   float64
	observed bool
}

func NewOrbitDeviation() *OrbitDeviation {
	return &OrbitDeviation{name: "orbit_deviation"}
}

func (o *OrbitDeviation) Name() string { return o.name }

func (o *OrbitDeviation) Observe(u *physics.Universe, tick int) {
	if !o.observed {
		o.initial = make([]float64, u.Len())
		for i := 1; i < u.Len(); i++ {
			o.initial[i] = u.Radius(i)
		}
		o.observed = true
		return
	}

	for i := 1; i < u.Len() && i < len(o.initial); i++ {
		if o.initial[i] == 0 {
			continue
		}
		dev := math.Abs(u.Radius(i)-o.initial[i]) / o.initial[i]
		o.maxDev = math.Max(o.maxDev, dev)
	}
}

func (o *OrbitDeviation) Value() float64 { return o.maxDev }

func (o *OrbitDeviation) Reset() {
	o.initial = nil
	o.maxDev = 0
	o.observed = false
}

// Validity is the fraction of observed ticks whose state was entirely finite.
type Validity struct {
	name       string
	violations int
	samples    int
}

func NewValidity() *Validity {
	return &Validity{name: "validity"}
}

func (v *Validity) Name() string { return v.name }

func (v *Validity) Observe(u *physics.Universe, tick int) {
	v.samples++
	if !u.IsFinite() {
		v.violations++
	}
}

func (v *Validity) Value() float64 {
	if v.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(v.violations)/float64(v.samples)
}

func (v *Validity) Reset() {
	v.violations = 0
	v.samples = 0
}
