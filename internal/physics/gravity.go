package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Acceleration returns the acceleration a body at target receives from a
// mass at source:
//
//	a = g*mass/(r² + softening) * d/sqrt(r² + softening),  d = source - target
//
// Callers must not pass a body as its own source.
func Acceleration(target, source r3.Vec, mass, g, softening float64) r3.Vec {
	dx := source.X - target.X
	dy := source.Y - target.Y
	dz := source.Z - target.Z

	distSq := dx*dx + dy*dy + dz*dz + softening
	dist := math.Sqrt(distSq)
	f := (g * mass) / distSq

	return r3.Vec{
		X: f * dx / dist,
		Y: f * dy / dist,
		Z: f * dz / dist,
	}
}

// AccelerationOn sums the acceleration on body i from every other body in
// the universe, in ascending index order.
func (u *Universe) AccelerationOn(i int) r3.Vec {
	body := u.Bodies[i]
	var acc r3.Vec
	for _, other := range u.Bodies {
		if body.ID == other.ID {
			continue
		}
		c := Acceleration(body.Pos, other.Pos, other.Mass, u.G, u.Softening)
		acc.X += c.X
		acc.Y += c.Y
		acc.Z += c.Z
	}
	return acc
}

// accelerationFromSnapshot is AccelerationOn over detached position and mass
// slices. id is skipped as the self term.
func accelerationFromSnapshot(id int, target r3.Vec, positions []r3.Vec, masses []float64, g, softening float64) r3.Vec {
	var acc r3.Vec
	for j, pos := range positions {
		if id == j {
			continue
		}
		c := Acceleration(target, pos, masses[j], g, softening)
		acc.X += c.X
		acc.Y += c.Y
		acc.Z += c.Z
	}
	return acc
}
