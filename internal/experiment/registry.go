package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/sim"
)

type Registry struct {
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() sim.Integrator),
	}

	r.integrators["symplectic-euler"] = func() sim.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["euler"] = func() sim.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) Register(name string, fn func() sim.Integrator) {
	r.integrators[name] = fn
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
