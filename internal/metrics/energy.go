package metrics

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/shopspring/decimal"
)

// EnergyDrift is the largest relative change of the specific orbital energy
// of one body about a primary, max |ε − ε₀| / |ε₀|.
type EnergyDrift struct {
	name      string
	primaryID int
	bodyID    int
	initial   decimal.Decimal
	maxDrift  decimal.Decimal
}

func NewEnergyDrift(primaryID, bodyID int) *EnergyDrift {
	return &EnergyDrift{
		name:      "energy_drift",
		primaryID: primaryID,
		bodyID:    bodyID,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Start(sys *physics.System) error {
	eps, err := e.energy(sys)
	if err != nil {
		return err
	}
	e.initial = eps
	e.maxDrift = decimal.Zero
	return nil
}

func (e *EnergyDrift) OnStep(_ int, _ decimal.Decimal, sys *physics.System) error {
	eps, err := e.energy(sys)
	if err != nil {
		return err
	}
	e.maxDrift = decimal.Max(e.maxDrift, relative(sys, eps, e.initial))
	return nil
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift.InexactFloat64() }

func (e *EnergyDrift) energy(sys *physics.System) (decimal.Decimal, error) {
	primary, body, err := pair(sys, e.primaryID, e.bodyID)
	if err != nil {
		return decimal.Zero, err
	}
	return sys.SpecificEnergy(primary, body)
}

// TotalEnergyDrift tracks the G-scaled total energy of all massive bodies.
type TotalEnergyDrift struct {
	initial  decimal.Decimal
	maxDrift decimal.Decimal
}

func NewTotalEnergyDrift() *TotalEnergyDrift { return &TotalEnergyDrift{} }

func (e *TotalEnergyDrift) Name() string { return "total_energy_drift" }

func (e *TotalEnergyDrift) Start(sys *physics.System) error {
	total, err := sys.Energy()
	if err != nil {
		return err
	}
	e.initial = total
	e.maxDrift = decimal.Zero
	return nil
}

func (e *TotalEnergyDrift) OnStep(_ int, _ decimal.Decimal, sys *physics.System) error {
	total, err := sys.Energy()
	if err != nil {
		return err
	}
	e.maxDrift = decimal.Max(e.maxDrift, relative(sys, total, e.initial))
	return nil
}

func (e *TotalEnergyDrift) Value() float64 { return e.maxDrift.InexactFloat64() }

func relative(sys *physics.System, v, ref decimal.Decimal) decimal.Decimal {
	p := sys.Precision()
	delta := p.Sub(v, ref).Abs()
	if ref.IsZero() {
		return delta
	}
	return p.Quo(delta, ref.Abs())
}

func pair(sys *physics.System, primaryID, bodyID int) (*physics.Body, *physics.Body, error) {
	primary, ok := sys.Body(primaryID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no body with id %d", dynamo.ErrValidation, primaryID)
	}
	body, ok := sys.Body(bodyID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no body with id %d", dynamo.ErrValidation, bodyID)
	}
	return primary, body, nil
}
