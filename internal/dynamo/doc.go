// Package dynamo provides the core value types shared by the orbital
// simulation packages.
//
// The package defines:
//
//   - [Vec3]: fixed three-component vector of arbitrary-precision decimals
//   - [RootFinder]: square-root provider used for vector norms
//   - the error kinds raised by the numeric kernel and the integrator
//     ([ErrDomain], [ErrConvergence], [ErrValidation], [ErrSingular])
//   - [SimulationError]: wraps a fault with the step and time it occurred at
//
// # Precision
//
// Every arithmetic method takes the run's [precision.Context] explicitly so
// that results are rounded to the configured significant digits:
//
//	p := precision.MustNew(200)
//	r := a.Sub(b, p)
//	s := r.Dot(r, p)
package dynamo
