package physics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/dynout/internal/dynamo"
)

var ErrUnknownModel = errors.New("physics: unknown model")

// Model is a system that can also describe and configure itself.
type Model interface {
	dynamo.System
	dynamo.Configurable
	DefaultState() dynamo.State
}

var registry = map[string]func() Model{
	"decay":       func() Model { return NewDecay() },
	"pendulum":    func() Model { return NewPendulum() },
	"spring_mass": func() Model { return NewSpringMass() },
	"doublewell":  func() Model { return NewDoubleWell() },
	"duffing":     func() Model { return NewDuffing() },
	"vanderpol":   func() Model { return NewVanDerPol() },
	"lorenz":      func() Model { return NewLorenz() },
	"rossler":     func() Model { return NewRossler() },
}

var descriptions = map[string]string{
	"decay": "exponential decay", "pendulum": "simple harmonic motion", "spring_mass": "oscillator",
	"doublewell": "bistable potential", "duffing": "forced nonlinear oscillator",
	"vanderpol": "limit cycle oscillator", "lorenz": "butterfly attractor", "rossler": "spiral chaos",
}

// New builds the named model with default parameters.
func New(name string) (Model, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return mk(), nil
}

// Names lists the registered models in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Describe(name string) string { return descriptions[name] }

// Configure applies params to m, failing on the first unknown name.
func Configure(m dynamo.Configurable, params map[string]float64) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%w: %s has no %q", dynamo.ErrUnknownParameter, model, name)
}
