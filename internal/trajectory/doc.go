// Package trajectory records body positions during a run and persists them
// as JSON time series of decimal strings.
//
// A file written by WriteFile looks like
//
//	[
//	    {"time": "1", "x": "-3074.65...", "y": "42164172.25...", "z": "0"},
//	    ...
//	]
//
// ReadFile also accepts bare JSON numbers in any field.
package trajectory
