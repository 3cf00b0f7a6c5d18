package physics

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/shopspring/decimal"
)

// Body is a point mass described by its gravitational parameter μ = G·m.
// X0 and V0 keep the initial state; X, V and A are advanced in place by
// the integrator that owns the body.
type Body struct {
	ID   int
	Name string
	Mu   decimal.Decimal

	X0, V0  dynamo.Vec3
	X, V, A dynamo.Vec3

	// presentation only
	Color     string
	LineWidth float64
}

type BodyOption func(*Body)

func WithColor(c string) BodyOption { return func(b *Body) { b.Color = c } }

func WithLineWidth(w float64) BodyOption { return func(b *Body) { b.LineWidth = w } }

// NewBody validates and builds a body. mu must be non-negative (zero for
// massless test bodies) and both vectors must have exactly three components.
func NewBody(id int, name string, mu decimal.Decimal, x0, v0 []decimal.Decimal, opts ...BodyOption) (*Body, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: body %d has no name", dynamo.ErrValidation, id)
	}
	if mu.Sign() < 0 {
		return nil, fmt.Errorf("%w: body %q has negative gravitational parameter %s", dynamo.ErrValidation, name, mu)
	}
	x, err := dynamo.VecFrom(x0)
	if err != nil {
		return nil, fmt.Errorf("body %q position: %w", name, err)
	}
	v, err := dynamo.VecFrom(v0)
	if err != nil {
		return nil, fmt.Errorf("body %q velocity: %w", name, err)
	}

	b := &Body{
		ID:        id,
		Name:      name,
		Mu:        mu,
		X0:        x,
		V0:        v,
		X:         x,
		V:         v,
		A:         dynamo.Zero(),
		Color:     "white",
		LineWidth: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Reset restores the initial position and velocity.
func (b *Body) Reset() {
	b.X = b.X0
	b.V = b.V0
	b.A = dynamo.Zero()
}

func (b *Body) IsMassless() bool { return b.Mu.IsZero() }

func (b *Body) String() string {
	return fmt.Sprintf("%s#%d", b.Name, b.ID)
}
