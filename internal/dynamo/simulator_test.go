package dynamo_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

type tickCounter struct {
	ticks []int
}

func (c *tickCounter) Name() string { return "ticks" }
func (c *tickCounter) Observe(u *physics.Universe, tick int) {
	c.ticks = append(c.ticks, tick)
}
func (c *tickCounter) Value() float64 { return float64(len(c.ticks)) }
func (c *tickCounter) Reset()         { c.ticks = nil }

type timingObserver struct {
	elapsed []time.Duration
}

func (o *timingObserver) OnTick(u *physics.Universe, tick int, elapsed time.Duration) {
	o.elapsed = append(o.elapsed, elapsed)
}

func galaxy(n int, seed int64) *physics.Universe {
	return physics.NewUniverse(n, rand.New(rand.NewSource(seed)))
}

func newSimulator(mode dynamo.Mode) *dynamo.Simulator {
	stepper, err := dynamo.NewStepper(mode, 4)
	Expect(err).NotTo(HaveOccurred())
	sim := dynamo.New(stepper)
	sim.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return sim
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("runs the requested number of ticks and times each one", func() {
		sim := newSimulator(dynamo.ModeParallel)
		u := galaxy(64, 1)

		result, err := sim.Run(ctx, u, dynamo.Config{Ticks: 25, Dt: 0.01})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Ticks).To(Equal(25))
		Expect(result.TickTimes).To(HaveLen(25))
		Expect(result.Bodies).To(Equal(64))
		Expect(result.Mode).To(Equal(dynamo.ModeParallel))
		Expect(result.Workers).To(Equal(4))

		var sum time.Duration
		for _, d := range result.TickTimes {
			sum += d
		}
		Expect(result.Elapsed).To(Equal(sum))
		Expect(result.PerTick()).To(Equal(sum / 25))
	})

	It("matches stepping one tick at a time", func() {
		for _, mode := range dynamo.Modes() {
			batched := galaxy(80, 2)
			single := batched.Clone()

			_, err := newSimulator(mode).Run(ctx, batched, dynamo.Config{Ticks: 10, Dt: 0.01})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 10; i++ {
				_, err := newSimulator(mode).Run(ctx, single, dynamo.Config{Ticks: 1, Dt: 0.01})
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(batched.Bodies).To(Equal(single.Bodies), "mode %s", mode)
		}
	})

	It("produces the same trajectory in serial and parallel mode", func() {
		serial := galaxy(100, 3)
		parallel := serial.Clone()

		_, err := newSimulator(dynamo.ModeSerial).Run(ctx, serial, dynamo.Config{Ticks: 5, Dt: 0.01})
		Expect(err).NotTo(HaveOccurred())
		_, err = newSimulator(dynamo.ModeParallel).Run(ctx, parallel, dynamo.Config{Ticks: 5, Dt: 0.01})
		Expect(err).NotTo(HaveOccurred())

		for i := range serial.Bodies {
			s, p := serial.Bodies[i].Pos, parallel.Bodies[i].Pos
			Expect(math.Abs(s.X-p.X)).To(BeNumerically("<", 1e-10))
			Expect(math.Abs(s.Y-p.Y)).To(BeNumerically("<", 1e-10))
			Expect(math.Abs(s.Z-p.Z)).To(BeNumerically("<", 1e-10))
		}
	})

	DescribeTable("rejects invalid configs",
		func(cfg dynamo.Config, want error) {
			_, err := newSimulator(dynamo.ModeSerial).Run(ctx, galaxy(4, 1), cfg)
			Expect(err).To(MatchError(want))
		},
		Entry("zero ticks", dynamo.Config{Ticks: 0, Dt: 0.01}, dynamo.ErrInvalidTicks),
		Entry("negative dt", dynamo.Config{Ticks: 1, Dt: -0.01}, dynamo.ErrInvalidDt),
	)

	It("stops between ticks when the context is canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		u := galaxy(10, 4)
		before := u.Clone()

		result, err := newSimulator(dynamo.ModeSerial).Run(canceled, u, dynamo.Config{Ticks: 10, Dt: 0.01})
		Expect(err).To(MatchError(dynamo.ErrCanceled))
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.Ticks).To(BeZero())
		Expect(u.Bodies).To(Equal(before.Bodies))
	})

	It("feeds metrics and observers after every tick", func() {
		sim := newSimulator(dynamo.ModeSerial)
		counter := &tickCounter{}
		timing := &timingObserver{}
		sim.AddMetric(counter)
		sim.AddObserver(timing)

		result, err := sim.Run(ctx, galaxy(8, 5), dynamo.Config{Ticks: 6, Dt: 0.01})
		Expect(err).NotTo(HaveOccurred())

		Expect(counter.ticks).To(Equal([]int{0, 1, 2, 3, 4, 5, 6}))
		Expect(result.Metrics).To(HaveKeyWithValue("ticks", 7.0))
		Expect(timing.elapsed).To(Equal(result.TickTimes))
	})

	It("records energy per tick when asked", func() {
		result, err := newSimulator(dynamo.ModeParallel).Run(ctx, galaxy(20, 6),
			dynamo.Config{Ticks: 12, Dt: 0.01, TrackEnergy: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Energy).To(HaveLen(13))
		Expect(result.Energy[12]).To(BeNumerically("~", result.Energy[0], math.Abs(result.Energy[0])*0.05))
	})

	It("reports divergence when validating state", func() {
		u := galaxy(3, 7)
		u.Bodies[2].Pos.X = math.NaN()

		result, err := newSimulator(dynamo.ModeSerial).Run(ctx, u,
			dynamo.Config{Ticks: 10, Dt: 0.01, ValidateState: true})
		Expect(err).To(MatchError(dynamo.ErrDiverged))

		var simErr *dynamo.SimulationError
		Expect(err).To(BeAssignableToTypeOf(simErr))
		Expect(result.Ticks).To(Equal(1))
	})

	It("handles empty and single-body universes", func() {
		for _, mode := range dynamo.Modes() {
			empty := physics.NewUniverse(0, nil)
			_, err := newSimulator(mode).Run(ctx, empty, dynamo.Config{Ticks: 3, Dt: 0.01})
			Expect(err).NotTo(HaveOccurred())

			lonely := galaxy(1, 8)
			_, err = newSimulator(mode).Run(ctx, lonely, dynamo.Config{Ticks: 3, Dt: 0.01})
			Expect(err).NotTo(HaveOccurred())
			Expect(lonely.Bodies[0].Pos.X).To(BeZero())
			Expect(lonely.Bodies[0].Vel.X).To(BeZero())
		}
	})
})

var _ = Describe("NewStepper", func() {
	It("builds both modes", func() {
		s, err := dynamo.NewStepper(dynamo.ModeSerial, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Mode()).To(Equal(dynamo.ModeSerial))
		Expect(s.Workers()).To(Equal(1))

		p, err := dynamo.NewStepper(dynamo.ModeParallel, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Mode()).To(Equal(dynamo.ModeParallel))
		Expect(p.Workers()).To(Equal(3))
	})

	It("rejects unknown modes", func() {
		_, err := dynamo.NewStepper(dynamo.Mode("gpu"), 1)
		Expect(err).To(MatchError(dynamo.ErrUnknownMode))
	})
})

var _ = Describe("Verify", func() {
	It("finds serial and parallel paths equivalent", func() {
		u := galaxy(100, 9)
		before := u.Clone()

		dev, err := dynamo.Verify(u, 0.01, 10, compute.NewPool(5).WithMinChunk(1), dynamo.DefaultTolerance)
		Expect(err).NotTo(HaveOccurred())
		Expect(dev.Pos).To(BeNumerically("<", dynamo.DefaultTolerance))
		Expect(u.Bodies).To(Equal(before.Bodies))
	})

	It("rejects invalid tick counts", func() {
		_, err := dynamo.Verify(galaxy(4, 1), 0.01, 0, nil, dynamo.DefaultTolerance)
		Expect(err).To(MatchError(dynamo.ErrInvalidTicks))
	})

	It("reports NaN trajectories as a mismatch", func() {
		u := galaxy(4, 10)
		u.Bodies[1].Pos.Y = math.NaN()

		_, err := dynamo.Verify(u, 0.01, 1, nil, dynamo.DefaultTolerance)
		Expect(err).To(MatchError(dynamo.ErrEquivalence))
	})
})
