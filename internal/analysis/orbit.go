package analysis

import "math"

// SweptPeriod is 2π·Δt/|Δθ| where Δθ is the unwrapped polar angle swept
// between the first and last sample. Exact for circular orbits and for
// whole numbers of revolutions.
func SweptPeriod(times, xs, ys []float64) (float64, bool) {
	n := min(len(times), len(xs), len(ys))
	if n < 2 {
		return 0, false
	}

	swept := 0.0
	prev := math.Atan2(ys[0], xs[0])
	for i := 1; i < n; i++ {
		a := math.Atan2(ys[i], xs[i])
		d := a - prev
		if d > math.Pi {
			d -= 2 * math.Pi
		} else if d < -math.Pi {
			d += 2 * math.Pi
		}
		swept += d
		prev = a
	}
	if swept == 0 {
		return 0, false
	}
	return 2 * math.Pi * (times[n-1] - times[0]) / math.Abs(swept), true
}

// Crossings returns the interpolated times at which the path passes through
// the positive x axis in the direction of motion. The first sample never
// counts as a crossing.
func Crossings(times, xs, ys []float64) []float64 {
	n := min(len(times), len(xs), len(ys))
	if n < 2 {
		return nil
	}
	// orientation from the swept sign, so clockwise orbits work too
	dir := 1.0
	if swept := math.Atan2(ys[1], xs[1]) - math.Atan2(ys[0], xs[0]); math.Sin(swept) < 0 {
		dir = -1
	}

	var out []float64
	prevVal := dir * ys[0]
	for i := 1; i < n; i++ {
		currVal := dir * ys[i]

		// Detect positive-going crossing on the positive x side
		if prevVal < 0 && currVal >= 0 && xs[i] > 0 {
			frac := -prevVal / (currVal - prevVal)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}

		prevVal = currVal
	}
	return out
}

// CrossingPeriod is the mean spacing of consecutive crossings. It needs at
// least two of them.
func CrossingPeriod(crossings []float64) (float64, bool) {
	if len(crossings) < 2 {
		return 0, false
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), true
}
