package metrics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/nbodysim/internal/physics"
)

func twoBody() *physics.Universe {
	return &physics.Universe{
		Bodies: []physics.Body{
			{ID: 0, Mass: 1_000_000},
			{ID: 1, Pos: r3.Vec{X: 400}, Vel: r3.Vec{Y: math.Sqrt(1_000_000 / 400.0)}, Mass: 3},
		},
		G:         1,
		Softening: 1e-5,
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	u := twoBody()

	m.Observe(u, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift on first sample, got %g", m.Value())
	}

	for tick := 1; tick <= 200; tick++ {
		u.StepSerial(0.01)
		m.Observe(u, tick)
	}
	if v := m.Value(); v <= 0 || v > 0.01 {
		t.Errorf("energy drift %g outside (0, 0.01]", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	u := physics.NewUniverse(20, rand.New(rand.NewSource(1)))

	m.Observe(u, 0)
	for tick := 1; tick <= 20; tick++ {
		u.StepSerial(0.01)
		m.Observe(u, tick)
	}

	if v := m.Value(); v > 1e-9 {
		t.Errorf("momentum drift %g, expected conservation", v)
	}

	// an external kick shows up as drift
	u.Bodies[1].Vel.X += 100
	m.Observe(u, 21)
	if m.Value() < 1e-6 {
		t.Error("momentum kick not detected")
	}
}

func TestOrbitDeviation(t *testing.T) {
	m := NewOrbitDeviation()
	u := twoBody()

	m.Observe(u, 0)
	for tick := 1; tick <= 500; tick++ {
		u.StepSerial(0.01)
		m.Observe(u, tick)
	}

	if v := m.Value(); v > 0.01 {
		t.Errorf("orbit deviation %g, expected < 1%%", v)
	}

	u.Bodies[1].Pos.X *= 2
	m.Observe(u, 501)
	if m.Value() < 0.5 {
		t.Errorf("expected large deviation after displacement, got %g", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestValidity(t *testing.T) {
	m := NewValidity()
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %g", m.Value())
	}

	u := twoBody()
	m.Observe(u, 0)
	u.Bodies[1].Vel.Y = math.Inf(1)
	m.Observe(u, 1)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %g", m.Value())
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		m, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if m.Name() == "" {
			t.Errorf("metric %q has empty name", name)
		}
	}

	if _, err := ByName("entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestSummarizeTicks(t *testing.T) {
	times := []time.Duration{
		4 * time.Millisecond,
		1 * time.Millisecond,
		3 * time.Millisecond,
		2 * time.Millisecond,
		5 * time.Millisecond,
	}

	s := SummarizeTicks(times)
	if s.Count != 5 {
		t.Errorf("Count = %d", s.Count)
	}
	if s.Total != 15*time.Millisecond {
		t.Errorf("Total = %v", s.Total)
	}
	if s.Mean != 3*time.Millisecond {
		t.Errorf("Mean = %v", s.Mean)
	}
	if s.Min != time.Millisecond || s.Max != 5*time.Millisecond {
		t.Errorf("Min/Max = %v/%v", s.Min, s.Max)
	}
	if s.Median != 3*time.Millisecond {
		t.Errorf("Median = %v", s.Median)
	}
	if s.StdDev <= 0 {
		t.Errorf("StdDev = %v", s.StdDev)
	}
}

func TestSummarizeTicksEdgeCases(t *testing.T) {
	if s := SummarizeTicks(nil); s != (TickStats{}) {
		t.Errorf("expected zero stats, got %+v", s)
	}

	s := SummarizeTicks([]time.Duration{time.Second})
	if s.StdDev != 0 || s.Mean != time.Second || s.Median != time.Second {
		t.Errorf("single sample stats wrong: %+v", s)
	}
}

func TestSpeedup(t *testing.T) {
	base := TickStats{Mean: 8 * time.Millisecond}
	fast := TickStats{Mean: 2 * time.Millisecond}

	if got := Speedup(base, fast); got != 4 {
		t.Errorf("Speedup = %g, want 4", got)
	}
	if got := Speedup(base, TickStats{}); got != 0 {
		t.Errorf("Speedup against zero = %g", got)
	}
}
