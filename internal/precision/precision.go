// Package precision defines the significant-digit budget shared by every
// arbitrary-precision value in a run.
//
// A [Context] is an explicit value rather than process-wide state: it is
// created once from configuration and handed to the math kernel, the vector
// arithmetic and the integrator. Values produced through a Context carry at
// most Digits significant digits, rounded half-to-even like a decimal
// arithmetic context.
package precision

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultDigits matches the precision used for long-horizon orbital runs.
const DefaultDigits = 200

// ErrInvalidDigits is returned for non-positive digit counts.
var ErrInvalidDigits = errors.New("precision: digit count must be positive")

type Context struct {
	digits int
}

func New(digits int) (Context, error) {
	if digits <= 0 {
		return Context{}, fmt.Errorf("%w: got %d", ErrInvalidDigits, digits)
	}
	return Context{digits: digits}, nil
}

// MustNew is New for package-level defaults and tests.
func MustNew(digits int) Context {
	c, err := New(digits)
	if err != nil {
		panic(err)
	}
	return c
}

func Default() Context { return Context{digits: DefaultDigits} }

func (c Context) Digits() int { return c.digits }

func (c Context) IsZero() bool { return c.digits == 0 }

// Extend returns a context carrying n additional guard digits.
func (c Context) Extend(n int) Context {
	return Context{digits: c.digits + n}
}

// Epsilon is 10^-digits.
func (c Context) Epsilon() decimal.Decimal {
	return decimal.New(1, int32(-c.digits))
}

// Round rounds d to the context's significant digits.
func (c Context) Round(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	n := d.NumDigits()
	if n <= c.digits {
		return d
	}
	places := c.digits - Magnitude(d)
	return d.RoundBank(int32(places))
}

func (c Context) Add(a, b decimal.Decimal) decimal.Decimal { return c.Round(a.Add(b)) }

func (c Context) Sub(a, b decimal.Decimal) decimal.Decimal { return c.Round(a.Sub(b)) }

func (c Context) Mul(a, b decimal.Decimal) decimal.Decimal { return c.Round(a.Mul(b)) }

// Quo divides a by b. b must be non-zero.
func (c Context) Quo(a, b decimal.Decimal) decimal.Decimal {
	if a.IsZero() {
		return decimal.Zero
	}
	// the quotient has at most Magnitude(a)-Magnitude(b)+1 integer digits
	places := c.digits - (Magnitude(a) - Magnitude(b)) + 1
	return c.Round(a.DivRound(b, int32(places)))
}

// Magnitude is the position of the most significant digit of d relative to
// the decimal point: 3 for 123.4, 0 for 0.5, -2 for 0.00123.
func Magnitude(d decimal.Decimal) int {
	if d.IsZero() {
		return 0
	}
	return d.NumDigits() + int(d.Exponent())
}

func (c Context) String() string {
	return fmt.Sprintf("%d significant digits", c.digits)
}
