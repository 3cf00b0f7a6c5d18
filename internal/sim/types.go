package sim

import (
	"time"

	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/shopspring/decimal"
)

// Integrator advances every body of sys by one step of size dt.
type Integrator interface {
	Name() string
	Step(sys *physics.System, dt decimal.Decimal) error
}

// Observer sees the system after each completed step. t is the time at the
// end of the step. Observers must not mutate the bodies.
type Observer interface {
	OnStep(step int, t decimal.Decimal, sys *physics.System) error
}

// Metric is an Observer that reduces a run to a single number.
type Metric interface {
	Observer
	Name() string
	Start(sys *physics.System) error
	Value() float64
}

type Config struct {
	Dt       decimal.Decimal
	Duration decimal.Decimal

	// ProgressEvery is the number of steps between progress callbacks.
	// Zero means every 1000 steps.
	ProgressEvery int
}

type Progress struct {
	Step    int
	Total   int
	Time    decimal.Decimal
	Elapsed time.Duration
}

type Result struct {
	Integrator string
	StepsTaken int
	FinalTime  decimal.Decimal
	Metrics    map[string]float64
	Elapsed    time.Duration
}
