package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"
)

// System is a fixed set of bodies interacting through Newtonian gravity.
type System struct {
	bodies []*Body
	byID   map[int]*Body
	prec   precision.Context
	roots  dynamo.RootFinder
}

// NewSystem takes ownership of bodies. Their order fixes the summation
// order of force accumulation. IDs must be unique, and so must names once
// case and spacing are ignored, since saved trajectories are named after
// their body.
func NewSystem(p precision.Context, roots dynamo.RootFinder, bodies ...*Body) (*System, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("%w: system has no bodies", dynamo.ErrValidation)
	}
	byID := make(map[int]*Body, len(bodies))
	byName := make(map[string]*Body, len(bodies))
	for _, b := range bodies {
		if b == nil {
			return nil, fmt.Errorf("%w: nil body", dynamo.ErrValidation)
		}
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate body id %d", dynamo.ErrValidation, b.ID)
		}
		key := NameKey(b.Name)
		if other, dup := byName[key]; dup {
			return nil, fmt.Errorf("%w: %v and %v share a name", dynamo.ErrValidation, other, b)
		}
		byID[b.ID] = b
		byName[key] = b
	}
	return &System{
		bodies: bodies,
		byID:   byID,
		prec:   p,
		roots:  roots,
	}, nil
}

// NameKey folds case and runs of whitespace, e.g. "Moon  Base" and
// "moon base" give the same key.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

func (s *System) Bodies() []*Body { return s.bodies }

func (s *System) Body(id int) (*Body, bool) {
	b, ok := s.byID[id]
	return b, ok
}

func (s *System) Precision() precision.Context { return s.prec }

func (s *System) Reset() {
	for _, b := range s.bodies {
		b.Reset()
	}
}

// Accelerate recomputes every body's acceleration:
//
//	a_i = Σ_{j≠i} −μ_j · (x_i − x_j) / |x_i − x_j|³
//
// Coincident bodies yield ErrSingular and leave every A untouched.
func (s *System) Accelerate() error {
	p := s.prec
	accs := make([]dynamo.Vec3, len(s.bodies))
	for i, b := range s.bodies {
		acc := dynamo.Zero()
		for _, other := range s.bodies {
			if other == b {
				continue
			}
			r := b.X.Sub(other.X, p)
			sq := r.NormSquared(p)
			if sq.IsZero() {
				return fmt.Errorf("%v and %v: %w", b, other, dynamo.ErrSingular)
			}
			if other.IsMassless() {
				continue
			}
			root, err := s.roots.Sqrt(sq)
			if err != nil {
				return fmt.Errorf("%v and %v: %w", b, other, err)
			}
			factor := p.Quo(other.Mu.Neg(), p.Mul(sq, root))
			acc = acc.Add(r.Scale(factor, p), p)
		}
		accs[i] = acc
	}
	// only a complete pass is committed
	for i, b := range s.bodies {
		b.A = accs[i]
	}
	return nil
}

// Distance is |a.X − b.X|.
func (s *System) Distance(a, b *Body) (decimal.Decimal, error) {
	return a.X.Sub(b.X, s.prec).Norm(s.prec, s.roots)
}

// Energy is the total energy scaled by G:
//
//	Σ μ_i |v_i|²/2 − Σ_{i<j} μ_i μ_j / r_ij
//
// Massless bodies contribute nothing.
func (s *System) Energy() (decimal.Decimal, error) {
	p := s.prec
	half := decimal.New(5, -1)
	total := decimal.Zero
	for i, a := range s.bodies {
		if a.IsMassless() {
			continue
		}
		total = p.Add(total, p.Mul(p.Mul(a.Mu, half), a.V.NormSquared(p)))
		for _, b := range s.bodies[i+1:] {
			if b.IsMassless() {
				continue
			}
			r, err := s.Distance(a, b)
			if err != nil {
				return decimal.Zero, err
			}
			if r.IsZero() {
				return decimal.Zero, fmt.Errorf("%v and %v: %w", a, b, dynamo.ErrSingular)
			}
			total = p.Sub(total, p.Quo(p.Mul(a.Mu, b.Mu), r))
		}
	}
	return total, nil
}

// SpecificEnergy is the two-body orbital energy of b about primary:
//
//	|v_b − v_p|²/2 − μ_p / |x_b − x_p|
func (s *System) SpecificEnergy(primary, b *Body) (decimal.Decimal, error) {
	p := s.prec
	r, err := s.Distance(b, primary)
	if err != nil {
		return decimal.Zero, err
	}
	if r.IsZero() {
		return decimal.Zero, fmt.Errorf("%v and %v: %w", primary, b, dynamo.ErrSingular)
	}
	v2 := b.V.Sub(primary.V, p).NormSquared(p)
	kinetic := p.Mul(v2, decimal.New(5, -1))
	return p.Sub(kinetic, p.Quo(primary.Mu, r)), nil
}
