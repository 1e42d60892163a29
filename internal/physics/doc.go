// Package physics holds the gravitational N-body model: the [Universe] state,
// its randomized galaxy initializer, the softened force law and the two
// semi-implicit Euler integration paths.
//
//   - [NewUniverse]: one dominant central mass plus orbiters on
//     quasi-circular orbits in the z=0 plane
//   - [Acceleration]: Newtonian gravity with Plummer softening
//   - [Universe.StepSerial]: direct all-pairs step on one goroutine
//   - [Universe.StepParallel]: the same step fanned out over a [compute.Pool]
//
// # Equivalence
//
// Both steps read positions from an unmodified view of the previous tick,
// sum contributions in ascending body index with the same force function, and
// only then update velocities and positions. The parallel step therefore
// produces the same trajectory as the serial one regardless of scheduling:
//
//	a := u.Clone()
//	u.StepSerial(dt)
//	a.StepParallel(dt, compute.NewPool(0))
//	// u.Bodies[i].Pos == a.Bodies[i].Pos for every i
package physics
