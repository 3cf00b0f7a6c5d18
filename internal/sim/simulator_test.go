package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/orbitsim/internal/decmath"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ds(c ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(c))
	for i, s := range c {
		out[i] = d(s)
	}
	return out
}

// circular builds a massless probe on a circular orbit of radius r about a
// central body with parameter mu.
func circular(digits int, mu, r, v string) *physics.System {
	p := precision.MustNew(digits)
	central, err := physics.NewBody(0, "central", d(mu), ds("0", "0", "0"), ds("0", "0", "0"))
	Expect(err).NotTo(HaveOccurred())
	probe, err := physics.NewBody(1, "probe", decimal.Zero, ds("0", r, "0"), ds("-"+v, "0", "0"))
	Expect(err).NotTo(HaveOccurred())
	sys, err := physics.NewSystem(p, decmath.New(p), central, probe)
	Expect(err).NotTo(HaveOccurred())
	return sys
}

type recorder struct {
	steps []int
	times []string
}

func (r *recorder) OnStep(step int, t decimal.Decimal, _ *physics.System) error {
	r.steps = append(r.steps, step)
	r.times = append(r.times, t.String())
	return nil
}

// radiusBand tracks the extreme distances between the first two bodies.
type radiusBand struct {
	min, max decimal.Decimal
}

func (b *radiusBand) Name() string { return "band" }

func (b *radiusBand) Start(sys *physics.System) error {
	r, err := sys.Distance(sys.Bodies()[0], sys.Bodies()[1])
	b.min, b.max = r, r
	return err
}

func (b *radiusBand) OnStep(_ int, _ decimal.Decimal, sys *physics.System) error {
	r, err := sys.Distance(sys.Bodies()[0], sys.Bodies()[1])
	if err != nil {
		return err
	}
	b.min = decimal.Min(b.min, r)
	b.max = decimal.Max(b.max, r)
	return nil
}

func (b *radiusBand) Value() float64 {
	return b.max.Sub(b.min).InexactFloat64() / b.max.InexactFloat64()
}

var _ = Describe("Clock", func() {
	It("rejects non-positive step and duration", func() {
		_, err := NewClock(d("0"), d("1"))
		Expect(err).To(MatchError(dynamo.ErrValidation))
		_, err = NewClock(d("1"), d("-1"))
		Expect(err).To(MatchError(dynamo.ErrValidation))
	})

	It("counts the steps needed to reach the duration", func() {
		c, err := NewClock(d("0.3"), d("1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Steps()).To(Equal(4))

		c, _ = NewClock(d("1"), d("86164.098903691"))
		Expect(c.Steps()).To(Equal(86165))

		c, _ = NewClock(d("0.5"), d("2"))
		Expect(c.Steps()).To(Equal(4))
	})

	It("advances by exactly one step", func() {
		p := precision.MustNew(30)
		c, _ := NewClock(d("0.1"), d("0.3"))
		for !c.Done() {
			c.Advance(p)
		}
		Expect(c.Now.Equal(d("0.3"))).To(BeTrue(), "now = %s", c.Now)
	})
})

var _ = Describe("Simulator", func() {
	var sys *physics.System

	BeforeEach(func() {
		sys = circular(30, "1", "1", "1")
	})

	DescribeTable("invalid config",
		func(dt, duration string) {
			s := New(sys, integrators.NewSymplecticEuler())
			_, err := s.Run(context.Background(), Config{Dt: d(dt), Duration: d(duration)})
			Expect(err).To(MatchError(dynamo.ErrValidation))
		},
		Entry("zero dt", "0", "1"),
		Entry("negative dt", "-0.1", "1"),
		Entry("zero duration", "0.1", "0"),
		Entry("negative duration", "0.1", "-1"),
	)

	It("samples every step with the post-step time", func() {
		rec := &recorder{}
		s := New(sys, integrators.NewSymplecticEuler())
		s.AddObserver(rec)

		res, err := s.Run(context.Background(), Config{Dt: d("0.5"), Duration: d("2")})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(4))
		Expect(res.FinalTime.Equal(d("2"))).To(BeTrue())
		Expect(res.Integrator).To(Equal("symplectic-euler"))
		Expect(rec.steps).To(Equal([]int{0, 1, 2, 3}))
		Expect(rec.times).To(Equal([]string{"0.5", "1", "1.5", "2"}))
	})

	It("overshoots a duration that is not a multiple of dt", func() {
		res, err := New(sys, integrators.NewSymplecticEuler()).
			Run(context.Background(), Config{Dt: d("0.3"), Duration: d("1")})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(4))
		Expect(res.FinalTime.Equal(d("1.2"))).To(BeTrue())
	})

	It("reports metrics and progress", func() {
		var seen []Progress
		s := New(sys, integrators.NewSymplecticEuler(), WithProgress(func(p Progress) {
			seen = append(seen, p)
		}))
		s.AddMetric(&radiusBand{})

		res, err := s.Run(context.Background(), Config{Dt: d("0.01"), Duration: d("0.5"), ProgressEvery: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKey("band"))
		Expect(seen).To(HaveLen(5))
		Expect(seen[len(seen)-1].Step).To(Equal(50))
		Expect(seen[len(seen)-1].Total).To(Equal(50))
	})

	It("returns the partial result when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := New(sys, integrators.NewSymplecticEuler()).
			Run(ctx, Config{Dt: d("1"), Duration: d("10")})
		Expect(err).To(MatchError(context.Canceled))
		Expect(res).NotTo(BeNil())
		Expect(res.StepsTaken).To(BeZero())
	})

	It("wraps arithmetic faults with the step and time", func() {
		p := precision.MustNew(20)
		a, _ := physics.NewBody(0, "a", d("1"), ds("1", "1", "1"), ds("0", "0", "0"))
		b, _ := physics.NewBody(1, "b", d("1"), ds("1", "1", "1"), ds("0", "0", "0"))
		bad, err := physics.NewSystem(p, decmath.New(p), a, b)
		Expect(err).NotTo(HaveOccurred())

		_, err = New(bad, integrators.NewSymplecticEuler()).
			Run(context.Background(), Config{Dt: d("1"), Duration: d("5")})
		Expect(err).To(MatchError(dynamo.ErrSingular))

		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(0))
		Expect(simErr.Time.IsZero()).To(BeTrue())
	})
})

var _ = Describe("Ensemble", func() {
	build := func(dt string) func() (*Simulator, Config, error) {
		return func() (*Simulator, Config, error) {
			s := New(circular(20, "1", "1", "1"), integrators.NewSymplecticEuler())
			return s, Config{Dt: d(dt), Duration: d("1")}, nil
		}
	}

	It("keeps job order", func() {
		jobs := []Job{
			{Name: "coarse", Build: build("0.5")},
			{Name: "fine", Build: build("0.1")},
			{Name: "finest", Build: build("0.05")},
		}
		results, err := NewEnsemble(2).Run(context.Background(), jobs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].StepsTaken).To(Equal(2))
		Expect(results[1].StepsTaken).To(Equal(10))
		Expect(results[2].StepsTaken).To(Equal(20))
	})

	It("names the job that failed", func() {
		jobs := []Job{
			{Name: "ok", Build: build("0.5")},
			{Name: "broken", Build: build("0")},
		}
		_, err := NewEnsemble(0).Run(context.Background(), jobs)
		Expect(err).To(MatchError(dynamo.ErrValidation))
		Expect(err.Error()).To(ContainSubstring("broken"))
	})
})

var _ = Describe("geostationary orbit", func() {
	const (
		mu = "398600441800000"
		r  = "42164172.365635383577096799539293955083066031653837348012252877476964638009148844154889181355716636945118781593343809856252972310123832275430095527195841108481741103906413079508017867973849688974305655"
		v  = "3074.6599995581131635343976149417506860553199673459634939196623537622866740578479534786575132710526141913312784129905210182570627182021366203776860929871905369761728458547363926825506497502959246256577"
	)

	It("keeps the radius within a narrow band at a coarse step", func() {
		sys := circular(40, mu, r, v)
		band := &radiusBand{}
		s := New(sys, integrators.NewSymplecticEuler())
		s.AddMetric(band)

		// one sidereal day in one-minute steps
		res, err := s.Run(context.Background(), Config{Dt: d("60"), Duration: d("86164.098903691")})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(1437))
		Expect(res.Metrics["band"]).To(BeNumerically("<", 0.01))
	})

	It("returns close to its start after one sidereal day at dt = 1 s", func() {
		if testing.Short() {
			Skip("long orbital propagation")
		}
		sys := circular(40, mu, r, v)
		probe := sys.Bodies()[1]
		start := probe.X

		res, err := New(sys, integrators.NewSymplecticEuler()).
			Run(context.Background(), Config{Dt: d("1"), Duration: d("86164.098903691")})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(86165))

		p := sys.Precision()
		gap, err := probe.X.Sub(start, p).Norm(p, decmath.New(p))
		Expect(err).NotTo(HaveOccurred())
		// the last step overshoots the day by about 0.9 s, roughly 2.8 km
		Expect(gap.InexactFloat64()).To(BeNumerically("<", 10_000))
	})

	It("closes to within a kilometre from rounded inputs over whole seconds", func() {
		if testing.Short() {
			Skip("long orbital propagation")
		}
		sys := circular(40, mu, "42164172.37", "3074.66")
		sat := sys.Bodies()[1]
		start := sat.X

		res, err := New(sys, integrators.NewSymplecticEuler()).
			Run(context.Background(), Config{Dt: d("1"), Duration: d("86164")})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(86164))
		Expect(res.FinalTime.Equal(d("86164"))).To(BeTrue())

		p := sys.Precision()
		gap, err := sat.X.Sub(start, p).Norm(p, decmath.New(p))
		Expect(err).NotTo(HaveOccurred())
		// about 305 m
		Expect(gap.InexactFloat64()).To(BeNumerically("<", 1000))
	})
})
