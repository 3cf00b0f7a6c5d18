package sim

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"
)

// Clock is simulated time. Now moves forward by exactly Step per Advance.
type Clock struct {
	Now      decimal.Decimal
	Step     decimal.Decimal
	Duration decimal.Decimal
}

func NewClock(step, duration decimal.Decimal) (Clock, error) {
	if step.Sign() <= 0 {
		return Clock{}, fmt.Errorf("%w: dt must be positive, got %s", dynamo.ErrValidation, step)
	}
	if duration.Sign() <= 0 {
		return Clock{}, fmt.Errorf("%w: duration must be positive, got %s", dynamo.ErrValidation, duration)
	}
	return Clock{Now: decimal.Zero, Step: step, Duration: duration}, nil
}

func (c Clock) Done() bool { return c.Now.GreaterThanOrEqual(c.Duration) }

// Next is the time at the end of the current step.
func (c Clock) Next(p precision.Context) decimal.Decimal { return p.Add(c.Now, c.Step) }

func (c *Clock) Advance(p precision.Context) { c.Now = c.Next(p) }

// Steps is the number of Advance calls needed to reach Duration.
func (c Clock) Steps() int {
	q, r := c.Duration.Sub(c.Now).QuoRem(c.Step, 0)
	n := q.IntPart()
	if r.Sign() > 0 {
		n++
	}
	if n < 0 {
		return 0
	}
	return int(n)
}
