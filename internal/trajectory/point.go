package trajectory

import (
	"errors"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/shopspring/decimal"
)

var (
	ErrTimeMismatch   = errors.New("trajectory: sample times differ")
	ErrLengthMismatch = errors.New("trajectory: sample counts differ")
)

// Point is one body's position at one instant.
type Point struct {
	Time decimal.Decimal `json:"time"`
	X    decimal.Decimal `json:"x"`
	Y    decimal.Decimal `json:"y"`
	Z    decimal.Decimal `json:"z"`
}

func NewPoint(t decimal.Decimal, pos dynamo.Vec3) Point {
	return Point{Time: t, X: pos[0], Y: pos[1], Z: pos[2]}
}

func (p Point) Position() dynamo.Vec3 { return dynamo.Vec3{p.X, p.Y, p.Z} }

func (p Point) Equal(o Point) bool {
	return p.Time.Equal(o.Time) && p.X.Equal(o.X) && p.Y.Equal(o.Y) && p.Z.Equal(o.Z)
}
