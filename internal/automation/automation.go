package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/trajectory"
	"gopkg.in/yaml.v3"
)

const referenceLabel = "reference"

// Sweep runs one scenario under several step sizes, precisions or
// integrators and compares each variant with a reference run.
type Sweep struct {
	Name      string    `yaml:"name"`
	Preset    string    `yaml:"preset"`
	Config    string    `yaml:"config"`
	Parallel  int       `yaml:"parallel"`
	Save      bool      `yaml:"save"`
	Reference Variant   `yaml:"reference"`
	Variants  []Variant `yaml:"variants"`
}

// Variant overrides part of the base scenario. Empty fields keep the base
// value.
type Variant struct {
	Label      string `yaml:"label"`
	Dt         string `yaml:"dt"`
	Duration   string `yaml:"duration"`
	Precision  int    `yaml:"precision"`
	Integrator string `yaml:"integrator"`
}

// LoadSweep loads a sweep from a YAML file
func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sw Sweep
	if err := yaml.Unmarshal(data, &sw); err != nil {
		return nil, fmt.Errorf("parse sweep %s: %w", path, err)
	}
	if len(sw.Variants) == 0 {
		return nil, fmt.Errorf("sweep %s has no variants", path)
	}
	return &sw, nil
}

// Base resolves the scenario the variants are applied to: the config file
// when given, else the named preset.
func (s *Sweep) Base() (*config.Config, error) {
	if s.Config != "" {
		return config.Load(s.Config)
	}
	name := s.Preset
	if name == "" {
		name = config.DefaultPreset
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

func (v Variant) label() string {
	if v.Label != "" {
		return v.Label
	}
	return referenceLabel
}

// Apply returns a copy of base with the variant's overrides.
func (v Variant) Apply(base *config.Config) *config.Config {
	cfg := base.Clone()
	if v.Label != "" {
		cfg.Name = base.Name + "_" + v.Label
	}
	if v.Dt != "" {
		cfg.Dt = v.Dt
	}
	if v.Duration != "" {
		cfg.Duration = v.Duration
	}
	if v.Precision > 0 {
		cfg.Precision = v.Precision
	}
	if v.Integrator != "" {
		cfg.Integrator = v.Integrator
	}
	return cfg
}

type Options struct {
	Registry *experiment.Registry
	// Store receives every run and difference when the sweep saves.
	Store  *storage.Store
	Logger *log.Logger
}

// VariantResult compares one variant's primary body with the reference
// over the sample times both runs share.
type VariantResult struct {
	Label   string
	RunID   string
	Outcome *experiment.Outcome

	Compared     int
	MaxDeviation float64
	At           float64
	Difference   []trajectory.Point
}

type Report struct {
	Reference VariantResult
	Variants  []VariantResult
}

// Run executes the reference and every variant concurrently, at most
// sw.Parallel at a time, then diffs each variant against the reference.
func Run(ctx context.Context, sw *Sweep, base *config.Config, opts Options) (*Report, error) {
	if opts.Registry == nil {
		opts.Registry = experiment.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sw.Save && opts.Store == nil {
		return nil, fmt.Errorf("sweep %s: save requested without a store", sw.Name)
	}

	all := append([]Variant{sw.Reference}, sw.Variants...)
	exps := make([]*experiment.Experiment, len(all))
	jobs := make([]sim.Job, len(all))
	for i, v := range all {
		exp, err := experiment.New(v.Apply(base), opts.Registry, experiment.Options{
			Logger: logger.With("variant", v.label()),
		})
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.label(), err)
		}
		exps[i] = exp
		jobs[i] = sim.Job{
			Name: v.label(),
			Build: func() (*sim.Simulator, sim.Config, error) {
				return exp.Simulator(), exp.SimConfig(), nil
			},
		}
	}

	logger.Info("sweep started", "name", sw.Name, "variants", len(sw.Variants), "parallel", sw.Parallel)
	results, err := sim.NewEnsemble(sw.Parallel).Run(ctx, jobs)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Reference: VariantResult{Label: all[0].label(), Outcome: exps[0].Collect(results[0])},
	}
	body, refPts := report.Reference.Outcome.Primary()
	for i := 1; i < len(all); i++ {
		vr := VariantResult{Label: all[i].label(), Outcome: exps[i].Collect(results[i])}
		parent, child := trajectory.Align(refPts, vr.Outcome.Tracks[body])
		diff, err := trajectory.Diff(parent, child)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", vr.Label, err)
		}
		vr.Compared = len(diff)
		vr.Difference = diff
		vr.MaxDeviation, vr.At = trajectory.MaxDeviation(diff)
		if vr.Compared == 0 {
			logger.Warn("no sample times in common with the reference", "variant", vr.Label)
		}
		report.Variants = append(report.Variants, vr)
	}

	if sw.Save {
		if err := report.save(opts.Store); err != nil {
			return report, err
		}
	}
	logger.Info("sweep finished", "name", sw.Name)
	return report, nil
}

func (r *Report) save(st *storage.Store) error {
	refID, err := r.Reference.Outcome.Save(st)
	if err != nil {
		return fmt.Errorf("save reference: %w", err)
	}
	r.Reference.RunID = refID
	for i := range r.Variants {
		v := &r.Variants[i]
		id, err := v.Outcome.Save(st)
		if err != nil {
			return fmt.Errorf("save variant %s: %w", v.Label, err)
		}
		v.RunID = id
		if _, err := st.SaveDifference(refID, id, v.Difference); err != nil {
			return fmt.Errorf("save variant %s difference: %w", v.Label, err)
		}
	}
	return nil
}
