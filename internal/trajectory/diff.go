package trajectory

import (
	"fmt"
	"math"
)

// Diff returns parent − child point by point. Both series must have the same
// length and identical sample times.
func Diff(parent, child []Point) ([]Point, error) {
	if len(parent) != len(child) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(parent), len(child))
	}
	out := make([]Point, len(parent))
	for i := range parent {
		a, b := parent[i], child[i]
		if !a.Time.Equal(b.Time) {
			return nil, fmt.Errorf("%w at index %d: %s vs %s", ErrTimeMismatch, i, a.Time, b.Time)
		}
		out[i] = Point{
			Time: a.Time,
			X:    a.X.Sub(b.X),
			Y:    a.Y.Sub(b.Y),
			Z:    a.Z.Sub(b.Z),
		}
	}
	return out, nil
}

// MaxDeviation is the largest |(x, y, z)| in a difference series and the time
// at which it occurs. Magnitudes are for reporting only.
func MaxDeviation(diff []Point) (float64, float64) {
	var best, at float64
	for i, n := range Magnitudes(diff) {
		if n > best {
			best = n
			at = diff[i].Time.InexactFloat64()
		}
	}
	return best, at
}

// Magnitudes is |(x, y, z)| of every point, as float64 for charts.
func Magnitudes(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		x, y, z := p.X.InexactFloat64(), p.Y.InexactFloat64(), p.Z.InexactFloat64()
		out[i] = math.Sqrt(x*x + y*y + z*z)
	}
	return out
}

// Align keeps only the samples whose times occur in both series, e.g. a
// dt = 1 run against a dt = 0.5 run. Both inputs must be sorted by time.
func Align(a, b []Point) ([]Point, []Point) {
	outA := make([]Point, 0, min(len(a), len(b)))
	outB := make([]Point, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch a[i].Time.Cmp(b[j].Time) {
		case -1:
			i++
		case 1:
			j++
		default:
			outA = append(outA, a[i])
			outB = append(outB, b[j])
			i++
			j++
		}
	}
	return outA, outB
}
