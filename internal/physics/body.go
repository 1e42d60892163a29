package physics

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultG           = 1.0
	DefaultSoftening   = 1e-5
	DefaultCentralMass = 1_000_000.0
	DefaultMinRadius   = 100.0
	DefaultMaxRadius   = 1000.0
	DefaultMinMass     = 1.0
	DefaultMaxMass     = 10.0
)

// Body is a point mass. ID equals its index in Universe.Bodies for the whole
// lifetime of the universe.
type Body struct {
	ID   int
	Pos  r3.Vec
	Vel  r3.Vec
	Mass float64
}

type Universe struct {
	Bodies    []Body
	G         float64
	Softening float64 // added to the squared distance, must be > 0
}

// Params controls the shape of the generated galaxy.
type Params struct {
	G           float64
	Softening   float64
	CentralMass float64
	MinRadius   float64
	MaxRadius   float64
	MinMass     float64
	MaxMass     float64
}

func DefaultParams() Params {
	return Params{
		G:           DefaultG,
		Softening:   DefaultSoftening,
		CentralMass: DefaultCentralMass,
		MinRadius:   DefaultMinRadius,
		MaxRadius:   DefaultMaxRadius,
		MinMass:     DefaultMinMass,
		MaxMass:     DefaultMaxMass,
	}
}

// NewUniverse builds n bodies with the default galaxy parameters.
// A nil rng is replaced by a time-seeded source.
func NewUniverse(n int, rng *rand.Rand) *Universe {
	return NewUniverseWith(n, rng, DefaultParams())
}

// NewUniverseWith places body 0 at the origin at rest with p.CentralMass and
// puts bodies 1..n-1 on circular orbits around it: uniform radius in
// [MinRadius, MaxRadius), uniform angle in [0, 2π), uniform mass in
// [MinMass, MaxMass), tangential speed sqrt(G*CentralMass/r).
func NewUniverseWith(n int, rng *rand.Rand, p Params) *Universe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if n < 0 {
		n = 0
	}

	bodies := make([]Body, 0, n)
	if n > 0 {
		bodies = append(bodies, Body{
			ID:   0,
			Mass: p.CentralMass,
		})
	}

	for i := 1; i < n; i++ {
		dist := p.MinRadius + (p.MaxRadius-p.MinRadius)*rng.Float64()
		angle := 2 * math.Pi * rng.Float64()
		speed := math.Sqrt(p.G * p.CentralMass / dist)
		sin, cos := math.Sincos(angle)

		bodies = append(bodies, Body{
			ID:   i,
			Pos:  r3.Vec{X: dist * cos, Y: dist * sin},
			Vel:  r3.Vec{X: -speed * sin, Y: speed * cos},
			Mass: p.MinMass + (p.MaxMass-p.MinMass)*rng.Float64(),
		})
	}

	return &Universe{
		Bodies:    bodies,
		G:         p.G,
		Softening: p.Softening,
	}
}

func (u *Universe) Len() int { return len(u.Bodies) }

// Clone returns a deep copy sharing no storage with u.
func (u *Universe) Clone() *Universe {
	bodies := make([]Body, len(u.Bodies))
	copy(bodies, u.Bodies)
	return &Universe{
		Bodies:    bodies,
		G:         u.G,
		Softening: u.Softening,
	}
}

// IsFinite reports whether every position and velocity component is finite.
func (u *Universe) IsFinite() bool {
	for _, b := range u.Bodies {
		if !Finite(b.Pos) || !Finite(b.Vel) {
			return false
		}
	}
	return true
}

// Finite reports whether every component of v is finite.
func Finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
