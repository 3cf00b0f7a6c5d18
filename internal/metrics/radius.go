package metrics

import (
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/shopspring/decimal"
)

// RadiusBand is (r_max − r_min) / r_max for the distance between two
// bodies, the initial separation included. A circular orbit stays near 0.
type RadiusBand struct {
	primaryID int
	bodyID    int
	min, max  decimal.Decimal
}

func NewRadiusBand(primaryID, bodyID int) *RadiusBand {
	return &RadiusBand{primaryID: primaryID, bodyID: bodyID}
}

func (r *RadiusBand) Name() string { return "radius_band" }

func (r *RadiusBand) Start(sys *physics.System) error {
	d, err := r.distance(sys)
	if err != nil {
		return err
	}
	r.min, r.max = d, d
	return nil
}

func (r *RadiusBand) OnStep(_ int, _ decimal.Decimal, sys *physics.System) error {
	d, err := r.distance(sys)
	if err != nil {
		return err
	}
	r.min = decimal.Min(r.min, d)
	r.max = decimal.Max(r.max, d)
	return nil
}

func (r *RadiusBand) Value() float64 {
	if r.max.IsZero() {
		return 0
	}
	return r.max.Sub(r.min).InexactFloat64() / r.max.InexactFloat64()
}

func (r *RadiusBand) Min() decimal.Decimal { return r.min }
func (r *RadiusBand) Max() decimal.Decimal { return r.max }

func (r *RadiusBand) distance(sys *physics.System) (decimal.Decimal, error) {
	primary, body, err := pair(sys, r.primaryID, r.bodyID)
	if err != nil {
		return decimal.Zero, err
	}
	return sys.Distance(primary, body)
}
