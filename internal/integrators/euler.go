package integrators

import (
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/shopspring/decimal"
)

// SymplecticEuler updates velocity first and then moves each body with the
// new velocity. It keeps bounded energy error on closed orbits.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "symplectic-euler" }

func (e *SymplecticEuler) Step(sys *physics.System, dt decimal.Decimal) error {
	if err := sys.Accelerate(); err != nil {
		return err
	}
	p := sys.Precision()
	for _, b := range sys.Bodies() {
		b.V = b.V.Add(b.A.Scale(dt, p), p)
		b.X = b.X.Add(b.V.Scale(dt, p), p)
	}
	return nil
}

// Euler is the explicit scheme: position moves with the velocity from the
// start of the step. Orbits spiral outward.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys *physics.System, dt decimal.Decimal) error {
	if err := sys.Accelerate(); err != nil {
		return err
	}
	p := sys.Precision()
	for _, b := range sys.Bodies() {
		b.X = b.X.Add(b.V.Scale(dt, p), p)
		b.V = b.V.Add(b.A.Scale(dt, p), p)
	}
	return nil
}
