package experiment

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/trajectory"
	"github.com/san-kum/orbitsim/internal/viz"
)

const (
	PathsFile    = "2D_paths.svg"
	DistanceFile = "distance_over_time.svg"

	// maxPathPoints bounds the points kept per body for plotting.
	maxPathPoints = 20000
)

type Options struct {
	Logger   *log.Logger
	Progress func(sim.Progress)
	// NoMetrics skips energy and radius tracking, which costs one extra
	// square root per tracked body and step.
	NoMetrics bool
}

// Experiment is one configured run: the simulator plus the observers that
// turn it into trajectories, plot paths and metrics.
type Experiment struct {
	cfg       *config.Config
	scenario  *config.Scenario
	simulator *sim.Simulator
	sampler   *trajectory.Sampler
	paths     *viz.PathRecorder
	steps     int
	logger    *log.Logger
}

func New(cfg *config.Config, registry *Registry, opts Options) (*Experiment, error) {
	sc, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	integ, err := registry.GetIntegrator(sc.Integrator)
	if err != nil {
		return nil, err
	}
	clock, err := sim.NewClock(sc.Dt, sc.Duration)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("scenario", sc.Name)

	simOpts := []sim.Option{sim.WithLogger(logger)}
	if opts.Progress != nil {
		simOpts = append(simOpts, sim.WithProgress(opts.Progress))
	}
	s := sim.New(sc.System, integ, simOpts...)

	steps := clock.Steps()
	sampler := trajectory.NewSampler(sc.SampleEvery, sc.Track...)
	paths := viz.NewPathRecorder(sc.System, max(1, steps/maxPathPoints))
	s.AddObserver(sampler)
	s.AddObserver(paths)

	if !opts.NoMetrics {
		for _, m := range standardMetrics(sc) {
			s.AddMetric(m)
		}
	}

	return &Experiment{
		cfg:       cfg,
		scenario:  sc,
		simulator: s,
		sampler:   sampler,
		paths:     paths,
		steps:     steps,
		logger:    logger,
	}, nil
}

// standardMetrics follows the first tracked body about the first other
// massive body.
func standardMetrics(sc *config.Scenario) []sim.Metric {
	out := make([]sim.Metric, 0, 3)
	if primary, body, ok := primaryPair(sc); ok {
		out = append(out, metrics.NewEnergyDrift(primary.ID, body.ID), metrics.NewRadiusBand(primary.ID, body.ID))
	}
	massive := 0
	for _, b := range sc.System.Bodies() {
		if !b.IsMassless() {
			massive++
		}
	}
	if massive > 1 {
		out = append(out, metrics.NewTotalEnergyDrift())
	}
	return out
}

func primaryPair(sc *config.Scenario) (*physics.Body, *physics.Body, bool) {
	if len(sc.Track) == 0 {
		return nil, nil, false
	}
	body, _ := sc.System.Body(sc.Track[0])
	for _, b := range sc.System.Bodies() {
		if b != body && !b.IsMassless() {
			return b, body, true
		}
	}
	return nil, nil, false
}

func (e *Experiment) Scenario() *config.Scenario { return e.scenario }
func (e *Experiment) Simulator() *sim.Simulator  { return e.simulator }
func (e *Experiment) Steps() int                 { return e.steps }

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{Dt: e.scenario.Dt, Duration: e.scenario.Duration}
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	res, err := e.simulator.Run(ctx, e.SimConfig())
	return e.Collect(res), err
}

// Collect gathers the observers' output after the simulator has returned.
func (e *Experiment) Collect(res *sim.Result) *Outcome {
	tracks := make(map[string][]trajectory.Point, len(e.scenario.Track))
	for _, id := range e.scenario.Track {
		b, _ := e.scenario.System.Body(id)
		tracks[b.Name] = e.sampler.Points(id)
	}
	return &Outcome{
		Config:   e.cfg,
		Scenario: e.scenario,
		Result:   res,
		Tracks:   tracks,
		Paths:    e.paths.Paths(),
	}
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Config   *config.Config
	Scenario *config.Scenario
	Result   *sim.Result
	Tracks   map[string][]trajectory.Point
	Paths    []viz.Path
}

// Primary returns the first tracked body's samples.
func (o *Outcome) Primary() (string, []trajectory.Point) {
	if len(o.Scenario.Track) == 0 {
		return "", nil
	}
	b, _ := o.Scenario.System.Body(o.Scenario.Track[0])
	return b.Name, o.Tracks[b.Name]
}

func (o *Outcome) Metadata() storage.RunMetadata {
	sc := o.Scenario
	tracked := make(map[int]bool, len(sc.Track))
	for _, id := range sc.Track {
		tracked[id] = true
	}
	bodies := make([]storage.BodyMetadata, 0, len(sc.System.Bodies()))
	for _, b := range sc.System.Bodies() {
		bodies = append(bodies, storage.BodyMetadata{
			ID:        b.ID,
			Name:      b.Name,
			Mu:        b.Mu.String(),
			Color:     b.Color,
			LineWidth: b.LineWidth,
			Tracked:   tracked[b.ID],
		})
	}

	meta := storage.RunMetadata{
		Scenario:   sc.Name,
		Precision:  sc.Precision.Digits(),
		Dt:         sc.Dt.String(),
		Duration:   sc.Duration.String(),
		Integrator: sc.Integrator,
		Bodies:     bodies,
		Metrics:    map[string]float64{},
	}
	if o.Result != nil {
		meta.Integrator = o.Result.Integrator
		meta.Steps = o.Result.StepsTaken
		meta.FinalTime = o.Result.FinalTime.String()
		meta.Elapsed = o.Result.Elapsed.Round(time.Millisecond).String()
		meta.Metrics = o.Result.Metrics
	}
	return meta
}

// Save stores the run and renders its plots into the run directory.
func (o *Outcome) Save(st *storage.Store) (string, error) {
	runID, err := st.Save(o.Metadata(), o.Tracks)
	if err != nil {
		return "", err
	}
	dir := st.RunDir(runID)
	if err := viz.WriteSVG(filepath.Join(dir, PathsFile), viz.PathsSVG(o.Paths, 800, 800)); err != nil {
		return runID, err
	}
	if svg, ok := o.DistanceSVG(); ok {
		if err := viz.WriteSVG(filepath.Join(dir, DistanceFile), svg); err != nil {
			return runID, err
		}
	}
	return runID, nil
}

// Separation is the distance between the first tracked body and the first
// body other than it, over time.
func (o *Outcome) Separation() (a, b viz.Path, times, dist []float64, ok bool) {
	if len(o.Paths) < 2 {
		return a, b, nil, nil, false
	}
	a, b = o.Paths[0], o.Paths[1]
	if len(o.Scenario.Track) > 0 {
		for _, p := range o.Paths {
			if p.ID == o.Scenario.Track[0] {
				b = p
				break
			}
		}
		for _, p := range o.Paths {
			if p.ID != b.ID {
				a = p
				break
			}
		}
	}
	times, dist = viz.Separation(a, b)
	return a, b, times, dist, true
}

func (o *Outcome) DistanceSVG() (string, bool) {
	a, b, times, dist, ok := o.Separation()
	if !ok {
		return "", false
	}
	title := fmt.Sprintf("Distance from %s to %s over Time", b.Name, a.Name)
	return viz.SeriesSVG(times, dist, 1000, 600, title, "Distance (m)", b.Color), true
}
