package config

import (
	"fmt"
	"os"

	"github.com/san-kum/orbitsim/internal/decmath"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPreset      = "geostationary"
	DefaultIntegrator  = "symplectic-euler"
	DefaultSampleEvery = 1
)

// Config is a scenario. Every physical quantity is kept as a decimal string
// so no digits are lost between the file and the arithmetic.
type Config struct {
	Name        string       `yaml:"name"`
	Precision   int          `yaml:"precision"`
	Dt          string       `yaml:"dt"`
	Duration    string       `yaml:"duration"`
	Integrator  string       `yaml:"integrator"`
	SampleEvery int          `yaml:"sample_every"`
	Track       []int        `yaml:"track"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	ID        int      `yaml:"id"`
	Name      string   `yaml:"name"`
	Mu        string   `yaml:"mu"`
	Position  []string `yaml:"position"`
	Velocity  []string `yaml:"velocity"`
	Color     string   `yaml:"color,omitempty"`
	LineWidth float64  `yaml:"line_width,omitempty"`
}

func DefaultConfig() *Config {
	return GetPreset(DefaultPreset)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// the default track list refers to the default bodies
	var own struct {
		Bodies []BodyConfig `yaml:"bodies"`
		Track  []int        `yaml:"track"`
	}
	if err := yaml.Unmarshal(data, &own); err == nil && len(own.Bodies) > 0 && len(own.Track) == 0 {
		cfg.Track = nil
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Track = append([]int(nil), c.Track...)
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		b.Position = append([]string(nil), b.Position...)
		b.Velocity = append([]string(nil), b.Velocity...)
		out.Bodies[i] = b
	}
	return &out
}

// ApplyEnv overrides fields that are set in the environment.
func (c *Config) ApplyEnv(e Env) {
	if e.Precision > 0 {
		c.Precision = e.Precision
	}
}

// Tracked returns the ids to sample. With no explicit list every massless
// body is tracked, or every body when none is massless.
func (c *Config) Tracked() []int {
	if len(c.Track) > 0 {
		return c.Track
	}
	ids := make([]int, 0, len(c.Bodies))
	for _, b := range c.Bodies {
		if mu, err := decimal.NewFromString(b.Mu); err == nil && mu.IsZero() {
			ids = append(ids, b.ID)
		}
	}
	if len(ids) == 0 {
		for _, b := range c.Bodies {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Scenario is a validated Config turned into arithmetic values.
type Scenario struct {
	Name        string
	Precision   precision.Context
	Dt          decimal.Decimal
	Duration    decimal.Decimal
	Integrator  string
	SampleEvery int
	Track       []int
	Kernel      *decmath.Kernel
	System      *physics.System
}

// Build validates c and constructs fresh bodies, kernel and system. Every
// call returns independent state.
func (c *Config) Build() (*Scenario, error) {
	digits := c.Precision
	if digits == 0 {
		digits = precision.DefaultDigits
	}
	p, err := precision.New(digits)
	if err != nil {
		return nil, err
	}
	dt, err := positive("dt", c.Dt)
	if err != nil {
		return nil, err
	}
	duration, err := positive("duration", c.Duration)
	if err != nil {
		return nil, err
	}
	if len(c.Bodies) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no bodies", dynamo.ErrValidation, c.Name)
	}

	bodies := make([]*physics.Body, 0, len(c.Bodies))
	for _, bc := range c.Bodies {
		b, err := bc.build()
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}

	kernel := decmath.New(p)
	sys, err := physics.NewSystem(p, kernel, bodies...)
	if err != nil {
		return nil, err
	}

	track := c.Tracked()
	for _, id := range track {
		if _, ok := sys.Body(id); !ok {
			return nil, fmt.Errorf("%w: tracked body %d does not exist", dynamo.ErrValidation, id)
		}
	}

	every := c.SampleEvery
	if every <= 0 {
		every = DefaultSampleEvery
	}
	integrator := c.Integrator
	if integrator == "" {
		integrator = DefaultIntegrator
	}

	return &Scenario{
		Name:        c.Name,
		Precision:   p,
		Dt:          dt,
		Duration:    duration,
		Integrator:  integrator,
		SampleEvery: every,
		Track:       track,
		Kernel:      kernel,
		System:      sys,
	}, nil
}

func (bc BodyConfig) build() (*physics.Body, error) {
	mu, err := decimal.NewFromString(bc.Mu)
	if err != nil {
		return nil, fmt.Errorf("%w: body %q mu: %v", dynamo.ErrValidation, bc.Name, err)
	}
	x0, err := dynamo.ParseVec(bc.Position)
	if err != nil {
		return nil, fmt.Errorf("body %q position: %w", bc.Name, err)
	}
	v0, err := dynamo.ParseVec(bc.Velocity)
	if err != nil {
		return nil, fmt.Errorf("body %q velocity: %w", bc.Name, err)
	}

	opts := make([]physics.BodyOption, 0, 2)
	if bc.Color != "" {
		opts = append(opts, physics.WithColor(bc.Color))
	}
	if bc.LineWidth > 0 {
		opts = append(opts, physics.WithLineWidth(bc.LineWidth))
	}
	return physics.NewBody(bc.ID, bc.Name, mu, x0[:], v0[:], opts...)
}

func positive(field, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", dynamo.ErrValidation, field, err)
	}
	if v.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s must be positive, got %s", dynamo.ErrValidation, field, s)
	}
	return v, nil
}
