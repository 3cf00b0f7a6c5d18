package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Chart renders values as an asciigraph line chart. Long series are reduced
// to width points by taking every n-th sample, keeping the last one.
func Chart(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(Downsample(values, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Downsample returns at most n evenly spaced samples of values, first and
// last included.
func Downsample(values []float64, n int) []float64 {
	if n < 2 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	last := len(values) - 1
	for i := 0; i < n; i++ {
		out[i] = values[i*last/(n-1)]
	}
	return out
}
