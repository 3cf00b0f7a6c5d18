package dynamo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds raised by the numeric kernel and the integrator.
var (
	// ErrDomain indicates an argument outside a numeric function's domain.
	ErrDomain = errors.New("dynamo: argument outside function domain")

	// ErrConvergence indicates an iteration did not settle within its bound.
	ErrConvergence = errors.New("dynamo: iteration did not converge")

	// ErrValidation indicates a malformed body or configuration.
	ErrValidation = errors.New("dynamo: validation failed")

	// ErrSingular indicates two distinct bodies at the same position.
	ErrSingular = errors.New("dynamo: singular configuration (zero separation)")
)

// SimulationError wraps a fatal fault with the step it occurred at.
type SimulationError struct {
	Step    int
	Time    decimal.Decimal
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%s): %v", e.Step, e.Time.String(), e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
