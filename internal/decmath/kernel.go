package decmath

import (
	"fmt"
	"math"
	"math/big"
	"sync"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"
)

const (
	// DefaultMaxIterations bounds every Newton iteration.
	DefaultMaxIterations = 5000

	// guardDigits are carried through iterative work and dropped on return.
	guardDigits = 10
)

// piDigits holds π to 240 decimal places.
const piDigits = "3.141592653589793238462643383279502884197169399375105820974944592307816406286208998628034825342117067982148086513282306647093844609550582231725359408128481117450284102701938521105559644622948954930381964428810975665933446128475648233786783165"

// Kernel evaluates transcendental functions at a fixed precision. It is
// immutable after New and safe for concurrent use.
type Kernel struct {
	prec      precision.Context
	work      precision.Context
	pi        decimal.Decimal
	twoPi     decimal.Decimal
	threshold decimal.Decimal
	maxIter   int

	// 2π at the widened precisions used to reduce large arguments, by digits
	wide sync.Map
}

type Option func(*Kernel)

// WithMaxIterations overrides the Newton iteration bound.
func WithMaxIterations(n int) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.maxIter = n
		}
	}
}

// WithSeriesThreshold overrides the term magnitude at which the sine and
// cosine series stop. The default is 10^-digits.
func WithSeriesThreshold(t decimal.Decimal) Option {
	return func(k *Kernel) {
		if t.Sign() > 0 {
			k.threshold = t
		}
	}
}

func New(p precision.Context, opts ...Option) *Kernel {
	if p.IsZero() {
		p = precision.Default()
	}
	k := &Kernel{
		prec:      p,
		work:      p.Extend(guardDigits),
		threshold: p.Epsilon(),
		maxIter:   DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.pi = computePi(k.work)
	k.twoPi = k.work.Mul(k.pi, decimal.NewFromInt(2))
	return k
}

func (k *Kernel) Precision() precision.Context { return k.prec }

// Pi returns π rounded to the kernel precision.
func (k *Kernel) Pi() decimal.Decimal {
	return k.prec.Round(k.pi)
}

func computePi(p precision.Context) decimal.Decimal {
	if p.Digits() < len(piDigits)-1 {
		return p.Round(decimal.RequireFromString(piDigits))
	}
	// Machin: π = 16·atan(1/5) − 4·atan(1/239)
	wp := p.Extend(guardDigits)
	a := wp.Mul(decimal.NewFromInt(16), atanInv(5, wp))
	b := wp.Mul(decimal.NewFromInt(4), atanInv(239, wp))
	return p.Round(a.Sub(b))
}

// atanInv sums atan(1/x) = Σ (-1)^k / ((2k+1) x^(2k+1)).
func atanInv(x int64, p precision.Context) decimal.Decimal {
	xd := decimal.NewFromInt(x)
	x2 := decimal.NewFromInt(x * x)
	eps := p.Epsilon()

	power := p.Quo(decimal.NewFromInt(1), xd)
	sum := power
	for n := int64(1); ; n++ {
		power = p.Quo(power, x2)
		term := p.Quo(power, decimal.NewFromInt(2*n+1))
		if term.Abs().LessThan(eps) {
			break
		}
		if n%2 == 1 {
			sum = p.Sub(sum, term)
		} else {
			sum = p.Add(sum, term)
		}
	}
	return sum
}

// reduce maps theta into [-π, π]. Arguments with m integer digits are
// reduced at m extra digits so the remainder keeps the working precision.
func (k *Kernel) reduce(theta decimal.Decimal) decimal.Decimal {
	if theta.Abs().LessThanOrEqual(k.pi) {
		return k.work.Round(theta)
	}
	w, twoPi := k.work, k.twoPi
	if m := magnitude(theta); m > 0 {
		w = k.work.Extend(m)
		twoPi = k.twoPiAt(w)
	}
	theta = w.Round(theta)
	turns := w.Quo(theta, twoPi).Round(0)
	return k.work.Round(w.Sub(theta, w.Mul(turns, twoPi)))
}

func (k *Kernel) twoPiAt(p precision.Context) decimal.Decimal {
	if v, ok := k.wide.Load(p.Digits()); ok {
		return v.(decimal.Decimal)
	}
	twoPi := p.Mul(computePi(p), decimal.NewFromInt(2))
	k.wide.Store(p.Digits(), twoPi)
	return twoPi
}

// magnitude is the number of digits left of the decimal point of |d|.
func magnitude(d decimal.Decimal) int {
	if d.IsZero() {
		return 0
	}
	return max(0, d.NumDigits()+int(d.Exponent()))
}

// Sin evaluates the Taylor series of sine after reducing theta modulo 2π.
func (k *Kernel) Sin(theta decimal.Decimal) decimal.Decimal {
	x := k.reduce(theta)
	return k.prec.Round(k.series(x, x, 1))
}

// Cos evaluates the Taylor series of cosine after reducing theta modulo 2π.
func (k *Kernel) Cos(theta decimal.Decimal) decimal.Decimal {
	x := k.reduce(theta)
	return k.prec.Round(k.series(x, decimal.NewFromInt(1), 0))
}

// series sums term_i for i = first, first+2, ... with
// term_{i+2} = -term_i · x² / ((i+1)(i+2)), stopping once |term| < threshold.
func (k *Kernel) series(x, term decimal.Decimal, first int64) decimal.Decimal {
	w := k.work
	negX2 := w.Mul(x, x).Neg()
	sum := decimal.Zero
	for i := first; term.Abs().GreaterThanOrEqual(k.threshold); i += 2 {
		sum = w.Add(sum, term)
		term = w.Quo(w.Mul(term, negX2), decimal.NewFromInt((i+1)*(i+2)))
	}
	return sum
}

// Factorial returns n! exactly.
func Factorial(n int) (*big.Int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: factorial of negative number %d", dynamo.ErrDomain, n)
	}
	result := big.NewInt(1)
	for i := 2; i <= n; i++ {
		result.Mul(result, big.NewInt(int64(i)))
	}
	return result, nil
}

// NthRoot solves xⁿ = value with Newton's method starting from x₀ = 1.
func (k *Kernel) NthRoot(n int, value decimal.Decimal) (decimal.Decimal, error) {
	return k.NthRootFrom(n, value, decimal.NewFromInt(1))
}

// NthRootFrom is NthRoot with a caller-supplied starting point.
func (k *Kernel) NthRootFrom(n int, value, guess decimal.Decimal) (decimal.Decimal, error) {
	if n < 1 {
		return decimal.Zero, fmt.Errorf("%w: root degree %d", dynamo.ErrDomain, n)
	}
	switch value.Sign() {
	case 0:
		return decimal.Zero, nil
	case -1:
		if n%2 == 0 {
			return decimal.Zero, fmt.Errorf("%w: no real %d-th root of %s", dynamo.ErrDomain, n, value)
		}
		r, err := k.NthRootFrom(n, value.Neg(), guess.Abs())
		return r.Neg(), err
	}
	if n == 1 {
		return k.prec.Round(value), nil
	}
	if guess.Sign() <= 0 {
		guess = decimal.NewFromInt(1)
	}

	w := k.work
	nd := decimal.NewFromInt(int64(n))
	tol := decimal.New(1, int32(-(k.prec.Digits() + 1)))
	x := w.Round(guess)
	for i := 0; i < k.maxIter; i++ {
		xn1 := powInt(x, n-1, w)
		f := w.Sub(w.Mul(xn1, x), value)
		df := w.Mul(nd, xn1)
		if df.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: zero derivative at iteration %d", dynamo.ErrConvergence, i)
		}
		next := w.Sub(x, w.Quo(f, df))
		delta := next.Sub(x).Abs()
		scale := decimal.Max(decimal.NewFromInt(1), next.Abs())
		x = next
		if delta.LessThan(tol.Mul(scale)) {
			return k.prec.Round(x), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %d-th root of %s after %d iterations", dynamo.ErrConvergence, n, value, k.maxIter)
}

// Sqrt seeds Newton's method with the float64 square root.
func (k *Kernel) Sqrt(value decimal.Decimal) (decimal.Decimal, error) {
	guess := decimal.NewFromInt(1)
	if f := value.InexactFloat64(); f > 0 && !math.IsInf(f, 0) {
		if g := decimal.NewFromFloat(math.Sqrt(f)); g.Sign() > 0 {
			guess = g
		}
	}
	return k.NthRootFrom(2, value, guess)
}

// powInt is x^n by repeated squaring, rounded at each product.
func powInt(x decimal.Decimal, n int, p precision.Context) decimal.Decimal {
	result := decimal.NewFromInt(1)
	base := x
	for n > 0 {
		if n&1 == 1 {
			result = p.Mul(result, base)
		}
		n >>= 1
		if n > 0 {
			base = p.Mul(base, base)
		}
	}
	return result
}
