package viz

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/trajectory"
	"github.com/shopspring/decimal"
)

type XY struct{ X, Y float64 }

// Path is the projected (x, y) track of one body.
type Path struct {
	ID        int
	Name      string
	Color     string
	LineWidth float64
	Times     []float64
	Points    []XY
}

// PathRecorder collects every body's (x, y) position including the initial
// state. It implements sim.Observer.
type PathRecorder struct {
	every int
	paths []*Path
}

func NewPathRecorder(sys *physics.System, every int) *PathRecorder {
	if every < 1 {
		every = 1
	}
	r := &PathRecorder{every: every}
	for _, b := range sys.Bodies() {
		r.paths = append(r.paths, &Path{
			ID:        b.ID,
			Name:      b.Name,
			Color:     b.Color,
			LineWidth: b.LineWidth,
			Times:     []float64{0},
			Points:    []XY{project(b)},
		})
	}
	return r
}

func (r *PathRecorder) OnStep(step int, t decimal.Decimal, sys *physics.System) error {
	if (step+1)%r.every != 0 {
		return nil
	}
	tf := t.InexactFloat64()
	for i, b := range sys.Bodies() {
		p := r.paths[i]
		p.Times = append(p.Times, tf)
		p.Points = append(p.Points, project(b))
	}
	return nil
}

func (r *PathRecorder) Paths() []Path {
	out := make([]Path, len(r.paths))
	for i, p := range r.paths {
		out[i] = *p
	}
	return out
}

func project(b *physics.Body) XY {
	return XY{X: b.X[0].InexactFloat64(), Y: b.X[1].InexactFloat64()}
}

// PathFromTrajectory converts stored samples of one body.
func PathFromTrajectory(name, color string, pts []trajectory.Point) Path {
	p := Path{Name: name, Color: color, LineWidth: 1}
	for _, pt := range pts {
		p.Times = append(p.Times, pt.Time.InexactFloat64())
		p.Points = append(p.Points, XY{X: pt.X.InexactFloat64(), Y: pt.Y.InexactFloat64()})
	}
	return p
}

// Separation returns the in-plane distance between two paths sampled at the
// same instants. The shorter path bounds the result.
func Separation(a, b Path) ([]float64, []float64) {
	n := min(len(a.Points), len(b.Points))
	times := make([]float64, n)
	dist := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = a.Times[i]
		dist[i] = math.Hypot(a.Points[i].X-b.Points[i].X, a.Points[i].Y-b.Points[i].Y)
	}
	return times, dist
}

// Radius is the distance of each sample from the origin.
func Radius(p Path) ([]float64, []float64) {
	dist := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		dist[i] = math.Hypot(pt.X, pt.Y)
	}
	return p.Times, dist
}
