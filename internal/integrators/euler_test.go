package integrators

import (
	"github.com/san-kum/orbitsim/internal/decmath"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func v3(c ...string) dynamo.Vec3 {
	v, err := dynamo.VecFrom(vec(c...))
	Expect(err).NotTo(HaveOccurred())
	return v
}

func twoBody(digits int, mu string, x0, v0 []decimal.Decimal) (*physics.System, *physics.Body, *physics.Body) {
	p := precision.MustNew(digits)
	central, err := physics.NewBody(0, "central", decimal.RequireFromString(mu), vec("0", "0", "0"), vec("0", "0", "0"))
	Expect(err).NotTo(HaveOccurred())
	probe, err := physics.NewBody(1, "probe", decimal.Zero, x0, v0)
	Expect(err).NotTo(HaveOccurred())
	sys, err := physics.NewSystem(p, decmath.New(p), central, probe)
	Expect(err).NotTo(HaveOccurred())
	return sys, central, probe
}

var _ = Describe("single step", func() {
	var (
		sys            *physics.System
		central, probe *physics.Body
		dt             = decimal.NewFromInt(1)
	)

	BeforeEach(func() {
		// a = −4·(2,0,0)/2³ = (−1,0,0)
		sys, central, probe = twoBody(40, "4", vec("2", "0", "0"), vec("0", "1", "0"))
	})

	It("symplectic Euler moves with the updated velocity", func() {
		Expect(NewSymplecticEuler().Step(sys, dt)).To(Succeed())

		Expect(probe.A.Equal(v3("-1", "0", "0"))).To(BeTrue(), "a = %v", probe.A)
		Expect(probe.V.Equal(v3("-1", "1", "0"))).To(BeTrue(), "v = %v", probe.V)
		Expect(probe.X.Equal(v3("1", "1", "0"))).To(BeTrue(), "x = %v", probe.X)
	})

	It("explicit Euler moves with the previous velocity", func() {
		Expect(NewEuler().Step(sys, dt)).To(Succeed())

		Expect(probe.V.Equal(v3("-1", "1", "0"))).To(BeTrue(), "v = %v", probe.V)
		Expect(probe.X.Equal(v3("2", "1", "0"))).To(BeTrue(), "x = %v", probe.X)
	})

	It("leaves the central body at rest when the probe is massless", func() {
		Expect(NewSymplecticEuler().Step(sys, dt)).To(Succeed())

		Expect(central.X.IsZero()).To(BeTrue())
		Expect(central.V.IsZero()).To(BeTrue())
	})

	It("does not move anything when the configuration is singular", func() {
		sys, _, probe = twoBody(40, "4", vec("0", "0", "0"), vec("0", "1", "0"))

		err := NewSymplecticEuler().Step(sys, dt)
		Expect(err).To(MatchError(dynamo.ErrSingular))
		Expect(probe.X.IsZero()).To(BeTrue())
		Expect(probe.V.Equal(v3("0", "1", "0"))).To(BeTrue())
	})

	It("reports stable names", func() {
		Expect(NewSymplecticEuler().Name()).To(Equal("symplectic-euler"))
		Expect(NewEuler().Name()).To(Equal("euler"))
	})
})

var _ = Describe("energy over several orbits", func() {
	const steps = 400
	dt := decimal.RequireFromString("0.05")

	drift := func(step func(*physics.System, decimal.Decimal) error) float64 {
		// unit circular orbit: μ = 1, r = 1, v = 1, ε = −1/2
		sys, central, probe := twoBody(30, "1", vec("1", "0", "0"), vec("0", "1", "0"))
		e0, err := sys.SpecificEnergy(central, probe)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < steps; i++ {
			Expect(step(sys, dt)).To(Succeed())
		}
		e1, err := sys.SpecificEnergy(central, probe)
		Expect(err).NotTo(HaveOccurred())
		return e1.Sub(e0).InexactFloat64()
	}

	It("stays bounded for symplectic Euler and grows for explicit Euler", func() {
		symplectic := drift(NewSymplecticEuler().Step)
		explicit := drift(NewEuler().Step)

		Expect(symplectic).To(BeNumerically("~", 0, 0.05))
		Expect(explicit).To(BeNumerically(">", 0.1))
	})
})
