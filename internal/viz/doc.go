// Package viz renders orbits: SVG files for the 2-D paths and the
// separation over time, asciigraph charts and Braille previews for the
// terminal, and the lipgloss styles shared by the CLI.
//
// Rendering works on float64 copies of the decimal state. Precision is only
// needed for the integration, not for drawing.
package viz
