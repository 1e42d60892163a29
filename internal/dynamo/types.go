package dynamo

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/nbodysim/internal/physics"
)

type Mode string

const (
	ModeSerial   Mode = "serial"
	ModeParallel Mode = "parallel"
)

func (m Mode) String() string { return string(m) }

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSerial:
		return ModeSerial, nil
	case ModeParallel:
		return ModeParallel, nil
	}
	return "", fmt.Errorf("%w: %q (want serial or parallel)", ErrUnknownMode, s)
}

func Modes() []Mode { return []Mode{ModeSerial, ModeParallel} }

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(u *physics.Universe, tick int)
	Value() float64
	Reset()
}

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(u *physics.Universe, tick int, elapsed time.Duration)
}

type Config struct {
	Ticks int
	Dt    float64
	// ValidateState stops the run with ErrDiverged as soon as a body's
	// position or velocity is no longer finite.
	ValidateState bool
	// TrackEnergy records the total energy after every tick. This costs an
	// extra O(n²) pass per tick and is excluded from tick timings.
	TrackEnergy bool
}

func DefaultConfig() Config {
	return Config{
		Ticks: 100,
		Dt:    0.01,
	}
}

func (c Config) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidTicks, c.Ticks)
	}
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidDt, c.Dt)
	}
	return nil
}

type Result struct {
	Mode      Mode
	Workers   int
	Bodies    int
	Ticks     int
	Elapsed   time.Duration
	TickTimes []time.Duration
	// Energy holds the energy before the first tick followed by one entry
	// per tick. Empty unless Config.TrackEnergy is set.
	Energy  []float64
	Metrics map[string]float64
}

// PerTick returns the average wall time of one tick.
func (r *Result) PerTick() time.Duration {
	if r.Ticks == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Ticks)
}
