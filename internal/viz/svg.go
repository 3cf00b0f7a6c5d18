package viz

import (
	"fmt"
	"math"
	"os"
	"strings"
)

const (
	svgBackground = "#0a0a0a"
	svgGrid       = "#333344"
	svgText       = "#cccccc"
	svgMargin     = 60.0
)

type bounds struct{ minX, maxX, minY, maxY float64 }

func (b *bounds) add(x, y float64) {
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

// pad grows the box by 10% and keeps it non-degenerate.
func (b *bounds) pad() {
	rx, ry := b.maxX-b.minX, b.maxY-b.minY
	if rx == 0 {
		rx = math.Max(math.Abs(b.maxX), 1)
	}
	if ry == 0 {
		ry = math.Max(math.Abs(b.maxY), 1)
	}
	b.minX -= rx * 0.1
	b.maxX += rx * 0.1
	b.minY -= ry * 0.1
	b.maxY += ry * 0.1
}

func emptyBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

type frame struct {
	sb            strings.Builder
	width, height float64
	b             bounds
}

func newFrame(width, height int, b bounds, title, xlabel, ylabel string) *frame {
	f := &frame{width: float64(width), height: float64(height), b: b}
	fmt.Fprintf(&f.sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="12">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground)
	f.grid()
	fmt.Fprintf(&f.sb, `<text x="%.1f" y="24" fill="%s" font-size="16" text-anchor="middle">%s</text>
`, f.width/2, svgText, escape(title))
	fmt.Fprintf(&f.sb, `<text x="%.1f" y="%.1f" fill="%s" text-anchor="middle">%s</text>
`, f.width/2, f.height-12, svgText, escape(xlabel))
	fmt.Fprintf(&f.sb, `<text x="16" y="%.1f" fill="%s" text-anchor="middle" transform="rotate(-90 16 %.1f)">%s</text>
`, f.height/2, svgText, f.height/2, escape(ylabel))
	return f
}

func (f *frame) x(v float64) float64 {
	return svgMargin + (v-f.b.minX)/(f.b.maxX-f.b.minX)*(f.width-2*svgMargin)
}

func (f *frame) y(v float64) float64 {
	return f.height - svgMargin - (v-f.b.minY)/(f.b.maxY-f.b.minY)*(f.height-2*svgMargin)
}

func (f *frame) grid() {
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		fx := f.b.minX + (f.b.maxX-f.b.minX)*float64(i)/ticks
		fy := f.b.minY + (f.b.maxY-f.b.minY)*float64(i)/ticks
		fmt.Fprintf(&f.sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.5"/>
`, f.x(fx), f.y(f.b.minY), f.x(fx), f.y(f.b.maxY), svgGrid)
		fmt.Fprintf(&f.sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.5"/>
`, f.x(f.b.minX), f.y(fy), f.x(f.b.maxX), f.y(fy), svgGrid)
		fmt.Fprintf(&f.sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="10" text-anchor="middle">%s</text>
`, f.x(fx), f.height-svgMargin+14, svgText, tick(fx))
		fmt.Fprintf(&f.sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="10" text-anchor="end">%s</text>
`, svgMargin-4, f.y(fy)+3, svgText, tick(fy))
	}
}

func (f *frame) polyline(xs, ys []float64, color string, width float64) {
	if len(xs) == 0 {
		return
	}
	if len(xs) == 1 {
		fmt.Fprintf(&f.sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, f.x(xs[0]), f.y(ys[0]), math.Max(width, 2), color)
		return
	}
	fmt.Fprintf(&f.sb, `<path fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round" d="M`, color, width)
	for i := range xs {
		if i > 0 {
			f.sb.WriteString(" L")
		}
		fmt.Fprintf(&f.sb, "%.1f,%.1f", f.x(xs[i]), f.y(ys[i]))
	}
	f.sb.WriteString("\"/>\n")
}

func (f *frame) legend(names, colors []string) {
	for i, name := range names {
		y := 44 + float64(i)*16
		fmt.Fprintf(&f.sb, `<rect x="%.1f" y="%.1f" width="10" height="10" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, f.width-svgMargin-90, y-9, colors[i], f.width-svgMargin-75, y, svgText, escape(name))
	}
}

func (f *frame) String() string {
	f.sb.WriteString("</svg>\n")
	return f.sb.String()
}

// PathsSVG draws every path in the x-y plane with equal axis scale, using
// each body's color and line width.
func PathsSVG(paths []Path, width, height int) string {
	b := emptyBounds()
	for _, p := range paths {
		for _, pt := range p.Points {
			b.add(pt.X, pt.Y)
		}
	}
	if math.IsInf(b.minX, 0) {
		b = bounds{-1, 1, -1, 1}
	}
	// equal aspect so circles stay circles
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	half := math.Max(b.maxX-b.minX, b.maxY-b.minY) / 2
	b = bounds{cx - half, cx + half, cy - half, cy + half}
	b.pad()

	f := newFrame(width, height, b, "2D Paths of Celestial Bodies", "X Position (m)", "Y Position (m)")
	names := make([]string, 0, len(paths))
	colors := make([]string, 0, len(paths))
	for _, p := range paths {
		xs := make([]float64, len(p.Points))
		ys := make([]float64, len(p.Points))
		for i, pt := range p.Points {
			xs[i], ys[i] = pt.X, pt.Y
		}
		color := svgColor(p.Color)
		f.polyline(xs, ys, color, math.Max(p.LineWidth/2, 0.5))
		names = append(names, p.Name)
		colors = append(colors, color)
	}
	f.legend(names, colors)
	return f.String()
}

// SeriesSVG draws values against times as a single line chart.
func SeriesSVG(times, values []float64, width, height int, title, ylabel, color string) string {
	b := emptyBounds()
	for i := range values {
		b.add(times[i], values[i])
	}
	if math.IsInf(b.minX, 0) {
		b = bounds{0, 1, 0, 1}
	}
	b.pad()

	f := newFrame(width, height, b, title, "Time (s)", ylabel)
	f.polyline(times, values, svgColor(color), 1.5)
	return f.String()
}

func WriteSVG(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}

func svgColor(c string) string {
	if c == "" {
		return "white"
	}
	return c
}

func tick(v float64) string {
	a := math.Abs(v)
	if a != 0 && (a >= 1e5 || a < 1e-2) {
		return fmt.Sprintf("%.2e", v)
	}
	return fmt.Sprintf("%.2f", v)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
