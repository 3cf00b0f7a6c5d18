// Package analysis estimates orbital periods from sampled paths.
//
// Two independent estimates are offered:
//
//   - [SweptPeriod]: 2π over the mean angular rate about the origin
//   - [Crossings]: upward passes through the positive x axis, a Poincaré
//     section of the orbit, whose spacing is the period
//
// [DominantPeriod] reads the strongest line of a coordinate's power
// spectrum. Its resolution is one frequency bin, so it is a cross-check
// rather than a measurement.
package analysis
