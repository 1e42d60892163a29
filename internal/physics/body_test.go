package physics

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewUniverseShape(t *testing.T) {
	for _, n := range []int{1, 2, 3, 100, 1000} {
		u := NewUniverse(n, rand.New(rand.NewSource(int64(n))))

		if u.Len() != n {
			t.Fatalf("n=%d: got %d bodies", n, u.Len())
		}
		for i, b := range u.Bodies {
			if b.ID != i {
				t.Fatalf("n=%d: body %d has id %d", n, i, b.ID)
			}
		}

		c := u.Bodies[0]
		if c.Mass != 1_000_000 {
			t.Errorf("n=%d: central mass %f", n, c.Mass)
		}
		if c.Pos.X != 0 || c.Pos.Y != 0 || c.Pos.Z != 0 {
			t.Errorf("n=%d: central body at %v", n, c.Pos)
		}
		if c.Vel.X != 0 || c.Vel.Y != 0 || c.Vel.Z != 0 {
			t.Errorf("n=%d: central body moving %v", n, c.Vel)
		}
		if u.G != 1.0 || u.Softening != 1e-5 {
			t.Errorf("n=%d: constants G=%g softening=%g", n, u.G, u.Softening)
		}
	}
}

func TestNewUniverseOrbiters(t *testing.T) {
	u := NewUniverse(500, rand.New(rand.NewSource(7)))

	for _, b := range u.Bodies[1:] {
		r := math.Hypot(b.Pos.X, b.Pos.Y)
		if r < 100 || r >= 1000+1e-9 {
			t.Errorf("body %d radius %f outside [100, 1000)", b.ID, r)
		}
		if b.Pos.Z != 0 || b.Vel.Z != 0 {
			t.Errorf("body %d leaves the z=0 plane", b.ID)
		}
		if b.Mass < 1 || b.Mass >= 10 {
			t.Errorf("body %d mass %f outside [1, 10)", b.ID, b.Mass)
		}

		speed := math.Hypot(b.Vel.X, b.Vel.Y)
		want := math.Sqrt(1_000_000 / r)
		if math.Abs(speed-want) > 1e-9*want {
			t.Errorf("body %d speed %f, want %f", b.ID, speed, want)
		}

		// tangential: r · v == 0
		if dot := b.Pos.X*b.Vel.X + b.Pos.Y*b.Vel.Y; math.Abs(dot) > 1e-6*r*speed {
			t.Errorf("body %d velocity not tangential (dot=%g)", b.ID, dot)
		}
	}
}

func TestNewUniverseSeeded(t *testing.T) {
	a := NewUniverse(50, rand.New(rand.NewSource(42)))
	b := NewUniverse(50, rand.New(rand.NewSource(42)))

	for i := range a.Bodies {
		if a.Bodies[i] != b.Bodies[i] {
			t.Fatalf("body %d differs between identically seeded universes", i)
		}
	}
}

func TestNewUniverseDegenerate(t *testing.T) {
	if u := NewUniverse(0, nil); u.Len() != 0 {
		t.Errorf("expected empty universe, got %d bodies", u.Len())
	}
	if u := NewUniverse(-4, nil); u.Len() != 0 {
		t.Errorf("expected empty universe for negative count, got %d bodies", u.Len())
	}
}

func TestNewUniverseWithParams(t *testing.T) {
	p := DefaultParams()
	p.CentralMass = 500
	p.MinRadius, p.MaxRadius = 10, 20
	p.G = 2

	u := NewUniverseWith(20, rand.New(rand.NewSource(1)), p)
	if u.Bodies[0].Mass != 500 || u.G != 2 {
		t.Fatalf("params not applied: mass=%f G=%f", u.Bodies[0].Mass, u.G)
	}
	for _, b := range u.Bodies[1:] {
		r := math.Hypot(b.Pos.X, b.Pos.Y)
		speed := math.Hypot(b.Vel.X, b.Vel.Y)
		if want := math.Sqrt(2 * 500 / r); math.Abs(speed-want) > 1e-9*want {
			t.Errorf("body %d speed %f, want %f", b.ID, speed, want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	u := NewUniverse(10, rand.New(rand.NewSource(3)))
	c := u.Clone()

	c.Bodies[3].Pos.X += 1
	if u.Bodies[3].Pos.X == c.Bodies[3].Pos.X {
		t.Error("clone shares body storage")
	}
}
