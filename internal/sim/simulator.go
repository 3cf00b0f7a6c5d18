package sim

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

const defaultProgressEvery = 1000

type Simulator struct {
	sys        *physics.System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
	progress   func(Progress)
	logger     *log.Logger
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress installs a callback invoked from the simulation goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(s *Simulator) { s.progress = fn }
}

func New(sys *physics.System, integrator Integrator, opts ...Option) *Simulator {
	s := &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() *physics.System { return s.sys }

// Run integrates from the current body state until the clock reaches
// cfg.Duration. On cancellation or an arithmetic fault it returns the
// partial result together with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	clock, err := NewClock(cfg.Dt, cfg.Duration)
	if err != nil {
		return nil, err
	}
	every := cfg.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}

	p := s.sys.Precision()
	total := clock.Steps()
	result := &Result{
		Integrator: s.integrator.Name(),
		FinalTime:  clock.Now,
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		if err := m.Start(s.sys); err != nil {
			return nil, &dynamo.SimulationError{Step: 0, Time: clock.Now, Wrapped: err}
		}
	}

	s.logger.Debug("run started",
		"integrator", s.integrator.Name(),
		"bodies", len(s.sys.Bodies()),
		"precision", p.Digits(),
		"dt", cfg.Dt,
		"steps", total)

	start := time.Now()
	finish := func() {
		result.Elapsed = time.Since(start)
		result.FinalTime = clock.Now
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	for i := 0; !clock.Done(); i++ {
		select {
		case <-ctx.Done():
			finish()
			s.logger.Warn("run cancelled", "step", i, "t", clock.Now)
			return result, ctx.Err()
		default:
		}

		if err := s.integrator.Step(s.sys, clock.Step); err != nil {
			finish()
			return result, &dynamo.SimulationError{Step: i, Time: clock.Now, Wrapped: err}
		}

		t := clock.Next(p)
		for _, m := range s.metrics {
			if err := m.OnStep(i, t, s.sys); err != nil {
				finish()
				return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
			}
		}
		for _, obs := range s.observers {
			if err := obs.OnStep(i, t, s.sys); err != nil {
				finish()
				return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
			}
		}

		clock.Now = t
		result.StepsTaken++

		if s.progress != nil && (result.StepsTaken%every == 0 || clock.Done()) {
			s.progress(Progress{
				Step:    result.StepsTaken,
				Total:   total,
				Time:    clock.Now,
				Elapsed: time.Since(start),
			})
		}
	}

	finish()
	s.logger.Info("run finished",
		"integrator", result.Integrator,
		"steps", result.StepsTaken,
		"t", result.FinalTime,
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, nil
}
