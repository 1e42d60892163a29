package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/nbodysim/internal/compute"
)

// StepSerial advances the universe by dt. All accelerations are computed
// against the pre-step positions before any body moves.
func (u *Universe) StepSerial(dt float64) {
	acc := make([]r3.Vec, len(u.Bodies))
	for i := range u.Bodies {
		acc[i] = u.AccelerationOn(i)
	}

	for i := range u.Bodies {
		advance(&u.Bodies[i], acc[i], dt)
	}
}

// StepParallel advances the universe by dt using pool for both the
// acceleration and the update phase. Positions and masses are copied out
// first; each worker writes only the slots of the bodies it owns. A nil pool
// uses runtime.NumCPU() workers.
func (u *Universe) StepParallel(dt float64, pool *compute.Pool) {
	if pool == nil {
		pool = compute.NewPool(0)
	}

	n := len(u.Bodies)
	positions := make([]r3.Vec, n)
	masses := make([]float64, n)
	for i, b := range u.Bodies {
		positions[i] = b.Pos
		masses[i] = b.Mass
	}

	acc := make([]r3.Vec, n)
	g, softening := u.G, u.Softening
	pool.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			acc[i] = accelerationFromSnapshot(u.Bodies[i].ID, positions[i], positions, masses, g, softening)
		}
	})

	pool.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			advance(&u.Bodies[i], acc[i], dt)
		}
	})
}

// advance applies one semi-implicit Euler update: velocity first, then
// position with the new velocity.
func advance(b *Body, acc r3.Vec, dt float64) {
	b.Vel.X += acc.X * dt
	b.Vel.Y += acc.Y * dt
	b.Vel.Z += acc.Z * dt
	b.Pos.X += b.Vel.X * dt
	b.Pos.Y += b.Vel.Y * dt
	b.Pos.Z += b.Vel.Z * dt
}
