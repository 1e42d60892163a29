package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidCount indicates a non-positive body count.
	ErrInvalidCount = errors.New("dynamo: body count must be positive")

	// ErrInvalidTicks indicates a non-positive tick count.
	ErrInvalidTicks = errors.New("dynamo: tick count must be positive")

	// ErrInvalidDt indicates a non-positive or non-finite timestep.
	ErrInvalidDt = errors.New("dynamo: timestep must be positive and finite")

	// ErrUnknownMode indicates an execution mode other than serial or parallel.
	ErrUnknownMode = errors.New("dynamo: unknown execution mode")

	// ErrDiverged indicates a position or velocity became NaN or Inf.
	ErrDiverged = errors.New("dynamo: state diverged (NaN or Inf detected)")

	// ErrEquivalence indicates serial and parallel trajectories disagree.
	ErrEquivalence = errors.New("dynamo: serial and parallel trajectories differ")

	// ErrCanceled indicates the run was interrupted between ticks.
	ErrCanceled = errors.New("dynamo: run canceled")
)

// SimulationError attaches the tick at which a run failed.
type SimulationError struct {
	Tick    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
