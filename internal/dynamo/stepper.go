package dynamo

import (
	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/physics"
)

// Stepper advances a universe by one tick.
type Stepper interface {
	Mode() Mode
	Workers() int
	Step(u *physics.Universe, dt float64)
}

type SerialStepper struct{}

func NewSerialStepper() *SerialStepper { return &SerialStepper{} }

func (s *SerialStepper) Mode() Mode   { return ModeSerial }
func (s *SerialStepper) Workers() int { return 1 }

func (s *SerialStepper) Step(u *physics.Universe, dt float64) {
	u.StepSerial(dt)
}

type ParallelStepper struct {
	pool *compute.Pool
}

// NewParallelStepper uses a pool of the given size; non-positive means
// runtime.NumCPU().
func NewParallelStepper(workers int) *ParallelStepper {
	return &ParallelStepper{pool: compute.NewPool(workers)}
}

func (p *ParallelStepper) Mode() Mode   { return ModeParallel }
func (p *ParallelStepper) Workers() int { return p.pool.Workers() }

func (p *ParallelStepper) Step(u *physics.Universe, dt float64) {
	u.StepParallel(dt, p.pool)
}

func NewStepper(mode Mode, workers int) (Stepper, error) {
	switch mode {
	case ModeSerial:
		return NewSerialStepper(), nil
	case ModeParallel:
		return NewParallelStepper(workers), nil
	}
	_, err := ParseMode(string(mode))
	return nil, err
}
