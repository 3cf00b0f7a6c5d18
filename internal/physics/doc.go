// Package physics holds point-mass bodies and the Newtonian gravity that
// couples them.
//
// Masses enter only through the gravitational parameter μ = G·m, so
// G never appears. A body with μ = 0 is a test particle: it feels every
// massive body but pulls on nothing.
//
// All arithmetic goes through the [precision.Context] the [System] was
// built with, and square roots through its [dynamo.RootFinder]:
//
//	sys, err := physics.NewSystem(p, decmath.New(p), earth, satellite)
//	if err != nil {
//	    return err
//	}
//	if err := sys.Accelerate(); err != nil {
//	    return err // dynamo.ErrSingular for coincident bodies
//	}
package physics
