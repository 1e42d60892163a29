package dynamo

import (
	"fmt"
	"math"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/physics"
)

// DefaultTolerance is the largest per-coordinate difference accepted between
// the serial and parallel paths.
const DefaultTolerance = 1e-10

// Deviation is the largest per-coordinate difference seen between two
// trajectories.
type Deviation struct {
	Pos  float64
	Vel  float64
	Body int
	Tick int
}

// Verify steps a serial and a parallel copy of u for the given number of
// ticks and compares every coordinate after each tick. u itself is not
// modified. It stops at the first tick whose position difference exceeds tol
// and returns ErrEquivalence wrapped in a SimulationError.
func Verify(u *physics.Universe, dt float64, ticks int, pool *compute.Pool, tol float64) (Deviation, error) {
	var dev Deviation
	cfg := Config{Ticks: ticks, Dt: dt}
	if err := cfg.Validate(); err != nil {
		return dev, err
	}

	serial := u.Clone()
	parallel := u.Clone()

	for tick := 1; tick <= ticks; tick++ {
		serial.StepSerial(dt)
		parallel.StepParallel(dt, pool)

		for i := range serial.Bodies {
			s, p := serial.Bodies[i], parallel.Bodies[i]
			if d := maxAbsDiff(s.Pos.X-p.Pos.X, s.Pos.Y-p.Pos.Y, s.Pos.Z-p.Pos.Z); d > dev.Pos || math.IsNaN(d) {
				dev.Pos, dev.Body, dev.Tick = d, i, tick
			}
			if d := maxAbsDiff(s.Vel.X-p.Vel.X, s.Vel.Y-p.Vel.Y, s.Vel.Z-p.Vel.Z); d > dev.Vel {
				dev.Vel = d
			}
		}

		if dev.Pos > tol || math.IsNaN(dev.Pos) {
			return dev, &SimulationError{
				Tick:    tick,
				Wrapped: fmt.Errorf("%w: body %d off by %g (tolerance %g)", ErrEquivalence, dev.Body, dev.Pos, tol),
			}
		}
	}

	return dev, nil
}

func maxAbsDiff(d ...float64) float64 {
	m := 0.0
	for _, v := range d {
		if math.IsNaN(v) {
			return v
		}
		m = math.Max(m, math.Abs(v))
	}
	return m
}
