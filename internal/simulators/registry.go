package simulators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/uncertainty/internal/sim"
)

var ErrUnknownSimulator = errors.New("simulators: unknown simulator")

type entry struct {
	description string
	factory     func() sim.Simulator
}

type Registry struct {
	simulators map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{simulators: make(map[string]entry)}

	r.Register("constant", "fixed column vector [1 2 3]", func() sim.Simulator { return NewConstant(1, 2, 3) })
	r.Register("randomwalk", "gaussian random walk", func() sim.Simulator { return NewRandomWalk() })
	r.Register("gbm", "geometric brownian motion", func() sim.Simulator { return NewGBM() })

	return r
}

// Register adds or replaces a simulator factory.
func (r *Registry) Register(name, description string, factory func() sim.Simulator) {
	r.simulators[name] = entry{description: description, factory: factory}
}

func (r *Registry) Get(name string) (sim.Simulator, error) {
	e, ok := r.simulators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSimulator, name)
	}
	return e.factory(), nil
}

func (r *Registry) Describe(name string) string {
	return r.simulators[name].description
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.simulators))
	for name := range r.simulators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
