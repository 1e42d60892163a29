package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Energy returns kinetic plus softened potential energy. The potential uses
// the same softening term as the force law.
func (u *Universe) Energy() float64 {
	ke := 0.0
	pe := 0.0

	for i, bi := range u.Bodies {
		ke += 0.5 * bi.Mass * r3.Norm2(bi.Vel)

		for j := i + 1; j < len(u.Bodies); j++ {
			bj := u.Bodies[j]
			r := math.Sqrt(r3.Norm2(r3.Sub(bj.Pos, bi.Pos)) + u.Softening)
			pe -= u.G * bi.Mass * bj.Mass / r
		}
	}

	return ke + pe
}

func (u *Universe) Momentum() r3.Vec {
	var p r3.Vec
	for _, b := range u.Bodies {
		p = r3.Add(p, r3.Scale(b.Mass, b.Vel))
	}
	return p
}

func (u *Universe) AngularMomentum() r3.Vec {
	var l r3.Vec
	for _, b := range u.Bodies {
		l = r3.Add(l, r3.Scale(b.Mass, r3.Cross(b.Pos, b.Vel)))
	}
	return l
}

// Radius returns the distance of body i from the central body.
func (u *Universe) Radius(i int) float64 {
	if len(u.Bodies) == 0 {
		return 0
	}
	return r3.Norm(r3.Sub(u.Bodies[i].Pos, u.Bodies[0].Pos))
}
