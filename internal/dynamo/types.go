package dynamo

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"
)

// Vec3 is a position, velocity or acceleration in metres-based units.
type Vec3 [3]decimal.Decimal

// VecFrom builds a Vec3 from exactly three components.
func VecFrom(c []decimal.Decimal) (Vec3, error) {
	if len(c) != 3 {
		return Vec3{}, fmt.Errorf("%w: vector has %d components, want 3", ErrValidation, len(c))
	}
	return Vec3{c[0], c[1], c[2]}, nil
}

// ParseVec parses three decimal strings.
func ParseVec(c []string) (Vec3, error) {
	if len(c) != 3 {
		return Vec3{}, fmt.Errorf("%w: vector has %d components, want 3", ErrValidation, len(c))
	}
	var v Vec3
	for i, s := range c {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Vec3{}, fmt.Errorf("%w: component %d: %v", ErrValidation, i, err)
		}
		v[i] = d
	}
	return v, nil
}

func Zero() Vec3 { return Vec3{decimal.Zero, decimal.Zero, decimal.Zero} }

func (v Vec3) Add(o Vec3, p precision.Context) Vec3 {
	return Vec3{p.Add(v[0], o[0]), p.Add(v[1], o[1]), p.Add(v[2], o[2])}
}

func (v Vec3) Sub(o Vec3, p precision.Context) Vec3 {
	return Vec3{p.Sub(v[0], o[0]), p.Sub(v[1], o[1]), p.Sub(v[2], o[2])}
}

func (v Vec3) Scale(k decimal.Decimal, p precision.Context) Vec3 {
	return Vec3{p.Mul(v[0], k), p.Mul(v[1], k), p.Mul(v[2], k)}
}

// Div divides every component by k. k must be non-zero.
func (v Vec3) Div(k decimal.Decimal, p precision.Context) Vec3 {
	return Vec3{p.Quo(v[0], k), p.Quo(v[1], k), p.Quo(v[2], k)}
}

func (v Vec3) Neg() Vec3 { return Vec3{v[0].Neg(), v[1].Neg(), v[2].Neg()} }

func (v Vec3) Dot(o Vec3, p precision.Context) decimal.Decimal {
	sum := p.Mul(v[0], o[0])
	sum = p.Add(sum, p.Mul(v[1], o[1]))
	return p.Add(sum, p.Mul(v[2], o[2]))
}

// NormSquared is Σ v_k².
func (v Vec3) NormSquared(p precision.Context) decimal.Decimal {
	return v.Dot(v, p)
}

func (v Vec3) Norm(p precision.Context, r RootFinder) (decimal.Decimal, error) {
	return r.Sqrt(v.NormSquared(p))
}

func (v Vec3) IsZero() bool {
	return v[0].IsZero() && v[1].IsZero() && v[2].IsZero()
}

func (v Vec3) Equal(o Vec3) bool {
	return v[0].Equal(o[0]) && v[1].Equal(o[1]) && v[2].Equal(o[2])
}

// Float64 returns an inexact float copy, for rendering only.
func (v Vec3) Float64() [3]float64 {
	return [3]float64{v[0].InexactFloat64(), v[1].InexactFloat64(), v[2].InexactFloat64()}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%s, %s, %s)", v[0], v[1], v[2])
}

// RootFinder extracts square roots at the caller's precision.
type RootFinder interface {
	Sqrt(x decimal.Decimal) (decimal.Decimal, error)
}
