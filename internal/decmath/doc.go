// Package decmath implements the arbitrary-precision numeric kernel: π,
// series sine and cosine, exact factorial and Newton n-th roots.
//
// A [Kernel] is bound to one [precision.Context]. Iterative work is carried
// out with a few guard digits and rounded back to the context precision on
// return.
//
//	k := decmath.New(precision.MustNew(200))
//	p := k.Precision()
//	half := p.Quo(k.Pi(), decimal.NewFromInt(2))
//	one := k.Sin(half)
//	root, err := k.NthRoot(3, decimal.NewFromInt(27))
package decmath
