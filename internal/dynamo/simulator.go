package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/nbodysim/internal/physics"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(stepper Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Stepper() Stepper { return s.stepper }

// Step runs exactly one tick and returns its wall time.
func (s *Simulator) Step(u *physics.Universe, dt float64) time.Duration {
	start := time.Now()
	s.stepper.Step(u, dt)
	return time.Since(start)
}

// Run advances u in place by cfg.Ticks ticks. The context is only checked
// between ticks; a tick in progress always completes.
func (s *Simulator) Run(ctx context.Context, u *physics.Universe, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Mode:      s.stepper.Mode(),
		Workers:   s.stepper.Workers(),
		Bodies:    u.Len(),
		TickTimes: make([]time.Duration, 0, cfg.Ticks),
		Metrics:   make(map[string]float64),
	}
	if cfg.TrackEnergy {
		result.Energy = make([]float64, 0, cfg.Ticks+1)
		result.Energy = append(result.Energy, u.Energy())
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(u, 0)
	}

	s.logger.Info("simulation started",
		"mode", result.Mode,
		"bodies", result.Bodies,
		"ticks", cfg.Ticks,
		"workers", result.Workers)

	var runErr error
	for i := 0; i < cfg.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			runErr = &SimulationError{Tick: i, Wrapped: fmt.Errorf("%w: %w", ErrCanceled, err)}
			break
		}

		elapsed := s.Step(u, cfg.Dt)
		tick := i + 1

		result.Elapsed += elapsed
		result.TickTimes = append(result.TickTimes, elapsed)
		result.Ticks++
		s.logger.Debug("sim_step", "tick", i, "elapsed", elapsed)

		if cfg.TrackEnergy {
			result.Energy = append(result.Energy, u.Energy())
		}
		for _, m := range s.metrics {
			m.Observe(u, tick)
		}
		for _, obs := range s.observers {
			obs.OnTick(u, tick, elapsed)
		}

		if cfg.ValidateState && !u.IsFinite() {
			runErr = &SimulationError{Tick: tick, Wrapped: ErrDiverged}
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("simulation finished",
		"mode", result.Mode,
		"ticks", result.Ticks,
		"elapsed", result.Elapsed,
		"per_tick", result.PerTick())

	return result, runErr
}
